package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/uol/gobol/loader"
	"github.com/uol/logh"
	tlmanager "github.com/uol/timelinemanager"

	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/keyspace"
	"github.com/uol/cassakeyspace/lib/persistence"
	"github.com/uol/cassakeyspace/lib/rest"
	"github.com/uol/cassakeyspace/lib/structs"
	"github.com/uol/cassakeyspace/lib/tsstats"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary
	logger *logh.ContextualLogger
)

func main() {

	fmt.Println("Starting cassakeyspace")

	//Parse of command line arguments.
	var confPath, backendType string

	flag.StringVar(&confPath, "config", "config.toml", "path to configuration file")
	flag.StringVar(&backendType, "backend", "", "overrides the configured backend (memory or scylla)")
	flag.Parse()

	//Load conf file.
	settings := new(structs.Settings)

	err := loader.ConfToml(confPath, &settings)
	if err != nil {
		log.Fatalln("error loading config file: ", err)
	} else {
		fmt.Println("config file loaded: ", confPath)
	}

	if backendType != "" {
		settings.Backend = constants.BackendType(backendType)
	}

	if err := settings.Validate(); err != nil {
		log.Fatalln("invalid configuration: ", err)
	}

	logger = configureLogger(&settings.Logs)

	timelineManager := createTimelineManager(settings)
	backend := createBackend(settings, timelineManager)

	if timelineManager != nil {
		err = timelineManager.Start()
		if err != nil {
			if logh.ErrorEnabled {
				logger.Error().Err(err).Msg("error starting timeline manager")
			}
			os.Exit(1)
		}
	}

	createColumnFamilies(settings, backend)
	ks := loadKeyspace(settings, backend, timelineManager)
	restServer := createRESTserver(settings, ks, timelineManager)

	if logh.InfoEnabled {
		logger.Info().Msg("cassakeyspace started successfully")
	}

	stopChannel := make(chan os.Signal, 1)
	signal.Notify(stopChannel, os.Interrupt, syscall.SIGTERM)

	<-stopChannel

	if logh.InfoEnabled {
		logger.Info().Msg("stopping rest server")
	}

	restServer.Stop()

	if logh.InfoEnabled {
		logger.Info().Msg("closing the backend")
	}

	backend.Close()

	if timelineManager != nil {
		if logh.InfoEnabled {
			logger.Info().Msg("stopping statistics service")
		}

		timelineManager.Shutdown()
	}

	if logh.InfoEnabled {
		logger.Info().Msg("stopping cassakeyspace is done")
	}

	os.Exit(0)
}

// configureLogger - configures all loggers
func configureLogger(conf *structs.LoggerSettings) *logh.ContextualLogger {

	logh.ConfigureGlobalLogger(conf.Level, conf.Format)

	cl := logh.CreateContextualLogger(constants.StringsPKG, "main")

	if logh.InfoEnabled {
		cl.Info().Msg("log configured")
	}

	return cl
}

// collector - the timeline manager or a no-op collector when the statistics are disabled
func collector(timelineManager *tlmanager.Instance) tsstats.Collector {

	if timelineManager == nil {
		return tsstats.NoOp{}
	}

	return timelineManager
}

// createTimelineManager - creates the timeline manager, nil when the statistics are disabled
func createTimelineManager(conf *structs.Settings) *tlmanager.Instance {

	if !conf.EnableStats {
		if logh.InfoEnabled {
			logger.Info().Msg("statistics are disabled")
		}
		return nil
	}

	if logh.DebugEnabled {
		logger.Debug().Msgf("%+v", conf.Stats)
	}

	tm, err := tlmanager.New(&conf.Stats)
	if err != nil {
		if logh.FatalEnabled {
			logger.Fatal().Err(err).Msg("error creating timeline manager")
		}
		os.Exit(1)
	}

	if logh.InfoEnabled {
		logger.Info().Msg("timeline manager was created")
	}

	return tm
}

// createBackend - creates the configured column-store backend
func createBackend(conf *structs.Settings, timelineManager *tlmanager.Instance) persistence.Backend {

	if conf.Backend == constants.BackendMemory {
		if logh.InfoEnabled {
			logger.Info().Msg("memory backend was created")
		}
		return persistence.NewMemory()
	}

	session, err := persistence.NewScyllaSession(&conf.Cassandra)
	if err != nil {
		if logh.FatalEnabled {
			logger.Fatal().Err(err).Msg("error creating scylla connection")
		}
		os.Exit(1)
	}

	if logh.InfoEnabled {
		logger.Info().Msg("scylla db connection was created")
	}

	return persistence.NewScylla(session, collector(timelineManager))
}

// createColumnFamilies - creates the configured column families when the auto creation is enabled
func createColumnFamilies(conf *structs.Settings, backend persistence.Backend) {

	if !conf.EnableAutoColumnFamilyCreation {
		return
	}

	ctx := context.Background()

	if scylla, ok := backend.(*persistence.Scylla); ok {
		err := scylla.CreateKeyspace(ctx, conf.Keyspace, conf.Cassandra.Datacenter, conf.Cassandra.ReplicationFactor)
		if err != nil {
			if logh.FatalEnabled {
				logger.Fatal().Err(err).Msgf("error creating keyspace '%s'", conf.Keyspace)
			}
			os.Exit(1)
		}
	}

	jsonStr, _ := json.Marshal(conf.ColumnFamilies)

	if logh.InfoEnabled {
		logger.Info().Msgf("creating column families: %s", jsonStr)
	}

	for name, attributes := range conf.ColumnFamilies {
		err := backend.CreateColumnFamily(ctx, conf.Keyspace, name, attributes)
		if err != nil {
			if logh.FatalEnabled {
				logger.Fatal().Err(err).Msgf("error creating column family '%s'", name)
			}
			os.Exit(1)
		}
	}
}

// loadKeyspace - loads the keyspace description
func loadKeyspace(conf *structs.Settings, backend persistence.Backend, timelineManager *tlmanager.Instance) *keyspace.Keyspace {

	ks, gerr := keyspace.Load(
		context.Background(),
		backend,
		conf.Keyspace,
		conf.ConsistencyLevel,
		keyspace.WithStats(collector(timelineManager)),
	)

	if gerr != nil {
		if logh.FatalEnabled {
			logger.Fatal().Err(gerr).Msgf("error loading keyspace '%s'", conf.Keyspace)
		}
		os.Exit(1)
	}

	if logh.InfoEnabled {
		logger.Info().Msgf("keyspace '%s' was loaded using consistency level %s", ks.Name(), ks.ConsistencyLevel())
	}

	return ks
}

// createRESTserver - creates the rest server
func createRESTserver(conf *structs.Settings, ks *keyspace.Keyspace, timelineManager *tlmanager.Instance) *rest.REST {

	restServer := rest.New(ks, &conf.HTTPserver, collector(timelineManager))

	restServer.Start()

	if logh.InfoEnabled {
		logger.Info().Msg("rest server was created")
	}

	return restServer
}
