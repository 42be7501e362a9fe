// internal/config/types.go
package config

import (
	"errors"
	"time"
)

// JobConfig describes one scheduled job in the configuration file
type JobConfig struct {
	Name           string        `yaml:"name" mapstructure:"name"`
	Schedule       string        `yaml:"schedule" mapstructure:"schedule"`
	Command        string        `yaml:"command" mapstructure:"command"`
	LockAtMostFor  time.Duration `yaml:"lockAtMostFor" mapstructure:"lockAtMostFor"`
	LockAtLeastFor time.Duration `yaml:"lockAtLeastFor" mapstructure:"lockAtLeastFor"`
}

// Validate ensures the job configuration is usable
func (j *JobConfig) Validate() error {
	if j.Name == "" {
		return errors.New("job name is required")
	}
	if j.Schedule == "" {
		return errors.New("job schedule is required")
	}
	if j.Command == "" {
		return errors.New("job command is required")
	}
	if j.LockAtMostFor <= 0 {
		return errors.New("lockAtMostFor must be positive")
	}
	if j.LockAtLeastFor < 0 {
		return errors.New("lockAtLeastFor must not be negative")
	}
	if j.LockAtLeastFor > j.LockAtMostFor {
		return errors.New("lockAtLeastFor must not exceed lockAtMostFor")
	}
	return nil
}

// RootConfig is the minimal shape read during backend detection
type RootConfig struct {
	Backend struct {
		Type string `yaml:"type"`
	} `yaml:"backend"`
}
