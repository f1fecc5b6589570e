// Package pipeline implements the cycle-stepped five stage pipeline:
// fetch, decode, execute, memory and writeback.
//
// Decode and execute each occupy an instruction for two cycles; the other
// stages take one. Each call to Engine.Tick advances one clock. At the start
// of a tick the hazard unit inspects the stage records left by the previous
// tick and decides operand forwarding, load-use stalls and structural fetch
// stalls. The stages then advance in reverse order, writeback first, so that
// every stage sees its predecessor's record from the previous tick.
//
// A single two-bit saturating counter predicts every branch at fetch. A
// branch predicted taken redirects fetch from decode. A branch that resolves
// against its prediction, and every jump, flushes fetch and decode when it
// executes; fetch then resumes from the corrected target once the branch
// reaches writeback.
package pipeline
