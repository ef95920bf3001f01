// Package control implements the cooperative control plane shared by the
// walker, aggregation, filtering and reorganization loops.
//
// A Token carries two independent signals: Cancel, which is set once and
// never cleared within a run, and Pause, which may be set and cleared
// repeatedly. Both are polled, never pushed; long-running loops call Step
// at each unit-of-work boundary and stop when it returns false.
//
// A Reporter turns completed units of work into a monotonically
// non-decreasing progress fraction in [0, 1] delivered to an injected sink.
// Workers may complete units in any order; the reporter never delivers a
// fraction lower than one it already delivered.
package control
