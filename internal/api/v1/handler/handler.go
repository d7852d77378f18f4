package handler

import (
	"net/http"
	"strconv"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"
)

// pageFromQuery reads the pagination controls common to all list routes.
func pageFromQuery(r *http.Request) repository.Page {
	page := repository.Page{Token: r.URL.Query().Get("nextToken")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Limit = int32(n)
		}
	}
	return page
}
