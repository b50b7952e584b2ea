// Package engine implements finite-field Diffie-Hellman over safe-prime groups.
//
// # Pipeline
//
//	GenerateParameters -> GenerateSecret / GeneratePublic (each party)
//	                   -> ComputeShared (each party) -> HashShared
//
// Both parties end up with the same Shared value when they use the same
// Parameters and each other's Public. HashShared turns it into hex key
// material; DeriveKey expands it with HKDF.
//
// # Configuration
//
// New takes functional options: randomness source, Miller-Rabin rounds,
// worker count and attempt budget for prime search, accepted modulus sizes,
// strict peer validation, digest algorithm, a parameter cache and a logger.
// An Engine is safe for concurrent use.
package engine
