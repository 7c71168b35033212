// Package testutil provides deterministic lattice builders shared by the
// package tests.
package testutil
