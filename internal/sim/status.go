package sim

// Status is a point-in-time summary of the simulation.
type Status struct {
	Tick     uint64
	Running  bool
	Seed     uint64
	TickRate float64
	Agents   int
	Tools    int
}

// Status summarizes the manager's current state.
func (m *Manager) Status() Status {
	return Status{
		Tick:     m.Tick(),
		Running:  m.Running(),
		Seed:     m.cfg.Seed,
		TickRate: m.cfg.TickRate,
		Agents:   m.agents.Len(),
		Tools:    m.tools.Len(),
	}
}
