package api

import (
	"errors"
	"net/http"

	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/rjson"
)

// WriteReorderError maps ordering failures onto the REST envelope: a bad
// index is the client's mistake, a vanished item is a stale board.
func WriteReorderError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, ordered.ErrIndexOutOfRange):
		rjson.Error(w, http.StatusBadRequest, "Posição inválida")
	case errors.Is(err, ordered.ErrItemNotFound):
		rjson.Error(w, http.StatusNotFound, notFoundMsg)
	default:
		rjson.WriteError(w, err, notFoundMsg)
	}
}
