// Package calculator holds the renegotiation math: the amortization status of
// a loan at a reference date, the tiered settlement discount and the fixed
// installment of the Price (French) amortization system.
//
// Every function in this package is pure: no I/O, no clock, no shared state.
// Callers pass reference dates explicitly and may call concurrently.
package calculator
