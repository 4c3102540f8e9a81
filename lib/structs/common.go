package structs

import (
	"fmt"

	"github.com/uol/funks"
	"github.com/uol/logh"
	tlmanager "github.com/uol/timelinemanager"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/persistence"
)

// LoggerSettings - the global logger configuration
type LoggerSettings struct {
	Level  logh.Level
	Format logh.Format
}

// SettingsHTTP - the rest server configuration
type SettingsHTTP struct {
	Bind              string
	Port              int
	AllowCORS         bool
	ForceErrorAsDebug bool
	ReadTimeout       funks.Duration
	WriteTimeout      funks.Duration
}

// Settings - the service configuration
type Settings struct {
	Keyspace                       string
	ConsistencyLevel               cassandra.ConsistencyLevel
	Backend                        constants.BackendType
	EnableAutoColumnFamilyCreation bool
	ColumnFamilies                 map[string]map[string]string
	Cassandra                      persistence.ScyllaSettings
	HTTPserver                     SettingsHTTP
	Logs                           LoggerSettings
	EnableStats                    bool
	Stats                          tlmanager.Configuration
}

// Validate - checks the settings before anything is created
func (s *Settings) Validate() error {

	if s.Keyspace == "" {
		return fmt.Errorf("a keyspace name is required")
	}

	switch s.Backend {
	case constants.BackendMemory:
	case constants.BackendScylla:
		if err := s.Cassandra.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown backend \"%s\"", s.Backend)
	}

	if s.Backend == constants.BackendMemory && !s.EnableAutoColumnFamilyCreation {
		return fmt.Errorf("the memory backend starts empty and requires the column families auto creation")
	}

	for name, attributes := range s.ColumnFamilies {
		switch attributes[constants.StringsType] {
		case constants.StringsStandard, constants.StringsSuper:
		default:
			return fmt.Errorf("column family \"%s\" must be of type \"%s\" or \"%s\"", name, constants.StringsStandard, constants.StringsSuper)
		}
	}

	if s.HTTPserver.Port <= 0 {
		return fmt.Errorf("invalid http port: %d", s.HTTPserver.Port)
	}

	return nil
}
