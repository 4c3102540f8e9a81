package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/uol/gobol/rip"
	"github.com/uol/logh"

	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/keyspace"
	"github.com/uol/cassakeyspace/lib/structs"
	"github.com/uol/cassakeyspace/lib/tsstats"
)

const (
	cPackage string = "rest"

	defaultTimeout time.Duration = 60 * time.Second
)

// REST is the http handler
type REST struct {
	kspace   *keyspace.Keyspace
	settings *structs.SettingsHTTP
	stats    tsstats.Collector
	server   *http.Server
	logger   *logh.ContextualLogger
}

// New returns http handler to the endpoints
func New(ks *keyspace.Keyspace, settings *structs.SettingsHTTP, stats tsstats.Collector) *REST {

	return &REST{
		kspace:   ks,
		settings: settings,
		stats:    tsstats.OrNoOp(stats),
		logger:   logh.CreateContextualLogger(constants.StringsPKG, cPackage),
	}
}

// Handler - the router wrapped by the logging middleware
func (trest *REST) Handler() http.Handler {

	rip.SetLogger(trest.settings.ForceErrorAsDebug)

	router := rip.NewCustomRouter()
	//PROBE
	router.GET("/probe", trest.check)
	//KEYSPACE
	router.GET("/keyspace", trest.describe)
	//ROWS
	router.POST("/rows/:key/:cf", trest.insert)
	router.DELETE("/rows/:key/:cf", trest.remove)
	router.GET("/rows/:key/:cf/columns/:column", trest.getColumn)
	router.GET("/rows/:key/:cf/super/:super", trest.getSuperColumn)
	router.POST("/rows/:key/:cf/slice", trest.getSlice)
	router.GET("/rows/:key/:cf/count", trest.getCount)
	//RANGES
	router.POST("/ranges/:cf", trest.getRangeSlice)
	//ADMINISTRATIVE
	router.POST("/admin/gc/free", trest.freeOSMemory)
	router.PUT("/admin/gc/percent", trest.setGCPercent)
	router.GET("/admin/gc/stats", trest.readGCStats)

	return newLogMiddleware(router, trest.stats, trest.settings.AllowCORS)
}

// Start asynchronously the handler of the APIs
func (trest *REST) Start() {

	trest.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", trest.settings.Bind, trest.settings.Port),
		Handler:           trest.Handler(),
		ReadTimeout:       timeoutOrDefault(trest.settings.ReadTimeout.Duration),
		ReadHeaderTimeout: timeoutOrDefault(trest.settings.ReadTimeout.Duration),
		WriteTimeout:      timeoutOrDefault(trest.settings.WriteTimeout.Duration),
		MaxHeaderBytes:    10485760,
	}

	go trest.asyncStart()
}

func (trest *REST) asyncStart() {

	if logh.InfoEnabled {
		trest.logger.Info().Str(constants.StringsFunc, "asyncStart").Msgf("listening on %s", trest.server.Addr)
	}

	err := trest.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		if logh.ErrorEnabled {
			trest.logger.Error().Str(constants.StringsFunc, "asyncStart").Err(err).Send()
		}
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

func (trest *REST) check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {

	w.WriteHeader(http.StatusOK)
}

// Stop - stops the rest server
func (trest *REST) Stop() {

	if trest.server == nil {
		return
	}

	if err := trest.server.Shutdown(context.Background()); err != nil {
		if logh.ErrorEnabled {
			trest.logger.Error().Str(constants.StringsFunc, "Stop").Err(err).Send()
		}
	}
}
