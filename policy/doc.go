// Package policy implements the selection strategies that decide, turn by
// turn, which agent acts next: fixed order, capped round-robin, a rule
// table, and model-driven selection. All strategies share the Policy
// interface and produce a closed Decision variant, resolved at
// configuration time.
package policy
