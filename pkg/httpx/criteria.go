package httpx

import (
	"net/url"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// CriteriaFromQuery reads filter criteria from query parameters:
//
//	type       repeatable, one label per value, taken verbatim (GRAM+ must be
//	           sent as GRAM%2B); labels may contain commas or spaces
//	repiquage  Tous, Oui or Non (default Tous)
//	q          name substring (alias: search)
func CriteriaFromQuery(q url.Values) (catalog.Criteria, error) {
	var c catalog.Criteria

	for _, t := range q["type"] {
		if t != "" {
			c.Types = append(c.Types, t)
		}
	}

	c.Repiquage = q.Get("repiquage")

	c.Search = q.Get("q")
	if c.Search == "" {
		c.Search = q.Get("search")
	}

	if err := c.Validate(); err != nil {
		return catalog.Criteria{}, err
	}
	return c.Normalize(), nil
}
