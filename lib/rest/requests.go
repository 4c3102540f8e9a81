package rest

import (
	"errors"
	"io/ioutil"
	"net/http"

	"github.com/buger/jsonparser"
	"github.com/uol/gobol"

	"github.com/uol/cassakeyspace/lib/cassandra"
)

const (
	fieldSuperColumn string = "superColumn"
	fieldColumn      string = "column"
	fieldValue       string = "value"
	fieldTTL         string = "ttl"
)

type insertRequest struct {
	superColumn string
	column      string
	value       string
	ttl         int32
}

// parseInsertRequest - reads the insert body, the super column and the ttl are optional
func parseInsertRequest(r *http.Request) (*insertRequest, gobol.Error) {

	const function = "parseInsertRequest"

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return nil, errBadRequest(function, "error reading the request body", err)
	}

	req := &insertRequest{}

	req.column, err = jsonparser.GetString(body, fieldColumn)
	if err != nil {
		return nil, errBadRequest(function, "the column name is required", err)
	}

	req.value, err = jsonparser.GetString(body, fieldValue)
	if err != nil {
		return nil, errBadRequest(function, "the column value is required", err)
	}

	req.superColumn, err = jsonparser.GetString(body, fieldSuperColumn)
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return nil, errBadRequest(function, "the super column must be a string", err)
	}

	ttl, err := jsonparser.GetInt(body, fieldTTL)
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return nil, errBadRequest(function, "the ttl must be an integer", err)
	}

	if ttl < 0 || ttl > int64(^uint32(0)>>1) {
		return nil, errBadRequest(function, "the ttl is out of range", errors.New("invalid ttl"))
	}

	req.ttl = int32(ttl)

	return req, nil
}

// sliceRequest - the names and the range are mutually exclusive
type sliceRequest struct {
	SuperColumn string                `json:"superColumn"`
	Names       []string              `json:"names"`
	Range       *cassandra.SliceRange `json:"range"`
}

func (req *sliceRequest) Validate() gobol.Error {

	const function = "Validate"

	if req.Names != nil && req.Range != nil {
		return errBadRequest(function, "names and range can not be used together", errors.New("ambiguous predicate"))
	}

	if req.Names == nil && req.Range == nil {
		return errBadRequest(function, "names or range is required", errors.New("missing predicate"))
	}

	return nil
}

func (req *sliceRequest) predicate() cassandra.SlicePredicate {

	if req.Range != nil {
		return *req.Range
	}

	return cassandra.ColumnNames(req.Names)
}

type rangeRequest struct {
	sliceRequest
	StartKey  string `json:"startKey"`
	FinishKey string `json:"finishKey"`
	Count     int32  `json:"count"`
	Super     bool   `json:"super"`
}

func (req *rangeRequest) Validate() gobol.Error {

	if gerr := req.sliceRequest.Validate(); gerr != nil {
		return gerr
	}

	if req.Count < 0 {
		return errBadRequest("Validate", "the row count can not be negative", errors.New("invalid count"))
	}

	return nil
}
