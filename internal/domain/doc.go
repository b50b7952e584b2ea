// Package domain defines the core data models, contracts and error values shared
// across dhlib. It contains plain types (parameters, keys, wire messages) and
// interfaces only; the arithmetic lives in internal/crypto and internal/engine.
package domain
