package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/storefront/internal/common/errors"
)

// PathInt64 parses a positive integer path wildcard such as {productID}.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, commonerrors.ErrInvalidProductID
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, commonerrors.ErrInvalidProductID
	}
	return v, nil
}
