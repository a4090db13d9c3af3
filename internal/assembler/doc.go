// Package assembler accumulates partial writes into complete commands.
//
// Bytes are appended to a pending buffer; only the freshly appended region
// is scanned for the terminator. When a terminator is found, the pending
// bytes up to and including it become a committed command and the pending
// buffer restarts with whatever followed.
//
// Two split policies exist:
//   - SplitFirst (default): only the first terminator in one Append ends a
//     command; anything after it is kept pending as the start of the next
//     command, even if it contains further terminators.
//   - SplitEvery: every terminator in the appended region ends a command.
//
// An Append that would grow a command past MaxCommandBytes fails with
// ErrResourceExhausted and leaves the pending buffer exactly as it was.
package assembler
