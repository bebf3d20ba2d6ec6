package core

import "github.com/agent-board/backend/internal/dto"

// GetAgentSettings returns the global agent settings, defaulting to Claude
// with no explicit models or turn cap when none have been saved yet.
func (c *Core) GetAgentSettings() (dto.AgentSettings, error) {
	var s dto.AgentSettings
	found, err := c.Store.GetInto(settingsFile, "settings", &s)
	if err != nil {
		return dto.AgentSettings{}, err
	}
	if !found {
		return dto.AgentSettings{DefaultProfile: dto.HarnessClaude}, nil
	}
	return s, nil
}

// SaveAgentSettings overwrites the global agent settings.
func (c *Core) SaveAgentSettings(s dto.AgentSettings) error {
	if err := c.Store.Set(settingsFile, "settings", s); err != nil {
		return err
	}
	return c.Store.Save(settingsFile)
}
