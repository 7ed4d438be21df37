// Package workflow drives linear, multi-step data-collection flows.
//
// A Registry declares the ordered steps of one flow (input steps, then a
// review step, then a final step). A Controller owns the session for one run
// of that flow and moves between steps:
//   - Advance commits the answer for the current step and moves forward
//   - GoBack pops the navigation history by one entry
//   - EditStep jumps from review to an earlier step; the next Advance returns
//     straight to review instead of replaying the steps in between
//
// Calling an operation whose precondition does not hold is a caller bug and
// panics with a *ContractError. Use Try to convert such a panic to an error.
package workflow
