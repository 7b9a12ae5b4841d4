// Package agent models the simulated actors: identity, short-term memory,
// action history, and the behavior hook that decides what each agent does
// per tick.
package agent
