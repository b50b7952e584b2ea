package interfaces

import domaintypes "dhlib/internal/domain/types"

// Engine is the Diffie-Hellman call surface. Implementations must be safe for
// concurrent use by unrelated exchanges.
type Engine interface {
	GenerateParameters(bits int) (domaintypes.Parameters, error)
	GenerateSecret(params domaintypes.Parameters) (domaintypes.Secret, error)
	GeneratePublic(
		params domaintypes.Parameters,
		secret domaintypes.Secret,
	) (domaintypes.Public, error)
	ComputeShared(
		peer domaintypes.Public,
		params domaintypes.Parameters,
		secret domaintypes.Secret,
	) (domaintypes.Shared, error)
	HashShared(shared domaintypes.Shared) (domaintypes.Digest, error)
}
