package rest

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	jsoniter "github.com/json-iterator/go"
	"github.com/uol/gobol"
	"github.com/uol/gobol/rip"

	"github.com/uol/cassakeyspace/lib/cassandra"
	"github.com/uol/cassakeyspace/lib/constants"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type keyspaceResponse struct {
	Name             string                     `json:"name"`
	ConsistencyLevel cassandra.ConsistencyLevel `json:"consistencyLevel"`
	Description      cassandra.Description      `json:"description"`
	Fingerprint      string                     `json:"fingerprint"`
}

type countResponse struct {
	Count int32 `json:"count"`
}

// successJSON - writes the payload encoded with jsoniter
func successJSON(w http.ResponseWriter, statusCode int, payload interface{}) {

	b, err := json.Marshal(payload)
	if err != nil {
		rip.Fail(w, errInternal("successJSON", err))
		return
	}

	w.Header().Add("Content-Type", "application/json")

	rip.Success(w, statusCode, b)
}

func (trest *REST) describe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {

	addStatsMap(r, map[string]string{"path": "/keyspace"})

	fingerprint, err := trest.kspace.Fingerprint()
	if err != nil {
		rip.Fail(w, errInternal("describe", err))
		return
	}

	successJSON(w, http.StatusOK, keyspaceResponse{
		Name:             trest.kspace.Name(),
		ConsistencyLevel: trest.kspace.ConsistencyLevel(),
		Description:      trest.kspace.Description(),
		Fingerprint:      fingerprint,
	})
}

func (trest *REST) insert(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {

	cf := ps.ByName("cf")
	addStatsMap(r, map[string]string{"path": "/rows/#key/#cf", constants.StringsColumnFamily: cf})

	req, gerr := parseInsertRequest(r)
	if gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	gerr = trest.kspace.InsertColumn(r.Context(), ps.ByName("key"), cf, req.superColumn, req.column, req.value, req.ttl)
	if gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	rip.Success(w, http.StatusCreated, nil)
}

func (trest *REST) remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {

	cf := ps.ByName("cf")
	addStatsMap(r, map[string]string{"path": "/rows/#key/#cf", constants.StringsColumnFamily: cf})

	q := r.URL.Query()

	gerr := trest.kspace.RemoveColumn(r.Context(), ps.ByName("key"), cf, q.Get(fieldSuperColumn), q.Get(fieldColumn))
	if gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	rip.Success(w, http.StatusNoContent, nil)
}

func (trest *REST) getColumn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {

	cf := ps.ByName("cf")
	addStatsMap(r, map[string]string{"path": "/rows/#key/#cf/columns/#column", constants.StringsColumnFamily: cf})

	column, gerr := trest.kspace.GetColumn(r.Context(), ps.ByName("key"), cf, r.URL.Query().Get(fieldSuperColumn), ps.ByName("column"))
	if gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	successJSON(w, http.StatusOK, column)
}

func (trest *REST) getSuperColumn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {

	cf := ps.ByName("cf")
	addStatsMap(r, map[string]string{"path": "/rows/#key/#cf/super/#super", constants.StringsColumnFamily: cf})

	superColumn, gerr := trest.kspace.GetSuperColumn(r.Context(), ps.ByName("key"), cf, ps.ByName("super"))
	if gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	successJSON(w, http.StatusOK, superColumn)
}

func (trest *REST) getSlice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {

	cf := ps.ByName("cf")
	addStatsMap(r, map[string]string{"path": "/rows/#key/#cf/slice", constants.StringsColumnFamily: cf})

	req := sliceRequest{}
	if gerr := rip.FromJSON(r, &req); gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	var (
		parent  = cassandra.NewColumnParent(cf, req.SuperColumn)
		columns []cassandra.Column
		gerr    gobol.Error
	)

	switch p := req.predicate().(type) {
	case cassandra.ColumnNames:
		columns, gerr = trest.kspace.GetSliceNames(r.Context(), ps.ByName("key"), parent, p)
	case cassandra.SliceRange:
		columns, gerr = trest.kspace.GetSliceRange(r.Context(), ps.ByName("key"), parent, p)
	}

	if gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	successJSON(w, http.StatusOK, columns)
}

func (trest *REST) getCount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {

	cf := ps.ByName("cf")
	addStatsMap(r, map[string]string{"path": "/rows/#key/#cf/count", constants.StringsColumnFamily: cf})

	parent := cassandra.NewColumnParent(cf, r.URL.Query().Get(fieldSuperColumn))

	count, gerr := trest.kspace.GetCount(r.Context(), ps.ByName("key"), parent)
	if gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	successJSON(w, http.StatusOK, countResponse{Count: count})
}

func (trest *REST) getRangeSlice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {

	cf := ps.ByName("cf")
	addStatsMap(r, map[string]string{"path": "/ranges/#cf", constants.StringsColumnFamily: cf})

	req := rangeRequest{}
	if gerr := rip.FromJSON(r, &req); gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	parent := cassandra.NewColumnParent(cf, req.SuperColumn)

	if req.Super {
		rows, gerr := trest.kspace.GetSuperRangeSlice(r.Context(), parent, req.predicate(), req.StartKey, req.FinishKey, req.Count)
		if gerr != nil {
			rip.Fail(w, gerr)
			return
		}
		successJSON(w, http.StatusOK, rows)
		return
	}

	rows, gerr := trest.kspace.GetRangeSlice(r.Context(), parent, req.predicate(), req.StartKey, req.FinishKey, req.Count)
	if gerr != nil {
		rip.Fail(w, gerr)
		return
	}

	successJSON(w, http.StatusOK, rows)
}
