package schema

import (
	"github.com/paveg/tamarin/internal/errors"
)

// collector is the lazy-mode accumulator. It gathers every failure record
// from every validation step, in discovery order, and raises one aggregate
// error at the end instead of short-circuiting.
type collector struct {
	records []errors.FailureRecord
}

func newCollector() *collector {
	return &collector{}
}

func (c *collector) add(failure *errors.SchemaError) {
	c.records = append(c.records, failure.Records()...)
}

func (c *collector) addRecords(records []errors.FailureRecord) {
	c.records = append(c.records, records...)
}

// result returns the aggregate error carrying the untouched input, or nil
// when no failures were collected
func (c *collector) result(data any) error {
	if len(c.records) == 0 {
		return nil
	}
	return &errors.SchemaErrors{Records: c.records, Data: data}
}
