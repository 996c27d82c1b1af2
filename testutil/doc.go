// Package testutil provides deterministic fixtures for tests: seeded water
// clouds and fixed-width PDB record builders.
package testutil
