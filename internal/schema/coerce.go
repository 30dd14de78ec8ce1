package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tamarin/internal/common"
	"github.com/paveg/tamarin/internal/dataframe"
	"github.com/paveg/tamarin/internal/errors"
	"github.com/paveg/tamarin/internal/series"
)

// coerceSeries converts every value of a series to the spec's declared type.
// Missing values are preserved as missing, never coerced to a sentinel of the
// target type; whether missing values are acceptable at all is the
// nullability step's concern. A non-null value that cannot convert is an
// unrecoverable CoercionError carrying the underlying conversion failure.
func coerceSeries(s dataframe.ISeries, spec *SeriesSpec, mem memory.Allocator) (dataframe.ISeries, error) {
	target := spec.Type()
	if target == nil {
		return nil, errors.NewCoercionError(s.Name(), "<none>",
			fmt.Errorf("no declared type to coerce to"))
	}
	if arrow.TypeEqual(s.DataType(), target) {
		return s, nil
	}

	values := make([]any, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.IsNull(i) {
			continue // stays missing
		}
		converted, err := common.Convert(s.ValueAt(i), target)
		if err != nil {
			return nil, errors.NewCoercionError(s.Name(), target.Name(),
				fmt.Errorf("row %d: %w", i, err))
		}
		values[i] = converted
	}

	built, err := series.Build(s.Name(), values, target, mem)
	if err != nil {
		return nil, errors.NewCoercionError(s.Name(), target.Name(), err)
	}
	return built.(dataframe.ISeries), nil
}
