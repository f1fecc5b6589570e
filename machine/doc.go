// Package machine holds the architectural state of the simulated processor.
//
// The state is 32 signed 32-bit registers, with register 0 hard-wired to
// zero, a 2048 cell word-addressed memory, and the program counter. Memory
// cells [0, 1024) hold the program image and cells [1024, 2048) are the data
// segment addressed by loads and stores.
//
// Every committed write that changes a value is journalled, so that a
// cycle's effects can be reported once the cycle completes.
package machine
