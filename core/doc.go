// Package core defines the shared vocabulary of the Convoke framework:
// messages, agents, sessions and their lifecycle. Higher layers (policies,
// termination conditions, the engine) depend only on these types, keeping
// the coordination logic independent of any model provider.
package core
