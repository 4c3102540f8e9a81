package rest

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/uol/gobol/rip"
	"github.com/uol/logh"

	"github.com/uol/cassakeyspace/lib/constants"
)

const actionAdministrative string = "ADMINISTRATIVE"

func (trest *REST) freeOSMemory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {

	addStatsMap(r, map[string]string{"path": "/admin/gc/free"})

	if logh.InfoEnabled {
		trest.logger.Info().Str("action", actionAdministrative).Str(constants.StringsFunc, "freeOSMemory").Msg("calling")
	}

	debug.FreeOSMemory()

	w.WriteHeader(http.StatusOK)
}

func (trest *REST) setGCPercent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {

	const function = "setGCPercent"

	addStatsMap(r, map[string]string{"path": "/admin/gc/percent"})

	percentageStr := r.URL.Query().Get("percentage")
	if len(percentageStr) == 0 {
		rip.Fail(w, errBadRequest(function, "the percentage is required", errors.New("missing percentage")))
		return
	}

	percentage, err := strconv.Atoi(percentageStr)
	if err != nil {
		rip.Fail(w, errBadRequest(function, "the percentage must be an integer", err))
		return
	}

	old := debug.SetGCPercent(percentage)

	if logh.InfoEnabled {
		trest.logger.Info().Str("action", actionAdministrative).Str(constants.StringsFunc, function).Int("old", old).Int("new", percentage).Msg("done")
	}

	rip.Success(w, http.StatusOK, []byte(strconv.Itoa(old)))
}

func (trest *REST) readGCStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {

	addStatsMap(r, map[string]string{"path": "/admin/gc/stats"})

	gcstats := debug.GCStats{}
	debug.ReadGCStats(&gcstats)

	successJSON(w, http.StatusOK, gcstats)
}
