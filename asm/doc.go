// Package asm assembles program text into an instruction image.
//
// A line holds one instruction: a case-insensitive mnemonic followed by
// whitespace separated operands, with registers written R<n> or r<n>. Text
// after ';' or '#' is a comment. A line may start with one or more
// "name:" labels; a label used as the offset of BNE assembles to the
// relative distance from the following instruction, and as the operand of J
// to the absolute address.
//
// Compile-time constants are declared with ".equ NAME VALUE", and $(expr)
// is replaced by the value of a Starlark integer expression over the
// equates and labels.
//
// A line that fails to assemble is reported and left out of the image;
// assembly continues with the following line.
package asm
