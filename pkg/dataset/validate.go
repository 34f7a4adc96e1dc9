package dataset

import (
	stderrors "errors"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/impactriver/pkg/errors"
)

// datasetValidate is the validator instance for dataset types.
// Initialized in init() with the author id rule.
var datasetValidate *validator.Validate

func init() {
	datasetValidate = validator.New(validator.WithRequiredStructEnabled())
	_ = datasetValidate.RegisterValidation("authorid", validateAuthorIDTag)
}

func validateAuthorIDTag(fl validator.FieldLevel) bool {
	return errors.ValidateAuthorID(fl.Field().String()) == nil
}

// Validate checks the dataset and returns an INVALID_INPUT error describing
// the first problem found, or nil.
//
// Checked, in order:
//   - field rules: author ids well formed, sizes > 0, max_bucket_size > 0
//   - sizes and max_bucket_size are finite
//   - the reference rules of [Dataset.ValidateReferences]
//
// Validate requires a positive max_bucket_size, so callers holding an
// empty dataset (see [Dataset.IsEmpty]) use ValidateReferences instead.
func (d *Dataset) Validate() error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidInput, "dataset is nil")
	}
	if err := datasetValidate.Struct(d); err != nil {
		return fieldError(err)
	}
	if math.IsInf(d.MaxBucketSize, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "max_bucket_size must be finite")
	}
	return d.ValidateReferences()
}

// ValidateReferences checks the rules that hold for empty datasets too:
//   - author ids are unique
//   - every contribution references a listed author
//   - an author appears at most once per bucket
//   - bucket dates are strictly ascending
//   - sizes are finite
func (d *Dataset) ValidateReferences() error {
	if d == nil {
		return nil
	}
	known := make(map[string]struct{}, len(d.Authors))
	for _, a := range d.Authors {
		if _, dup := known[a.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate author_id %q", a.ID)
		}
		known[a.ID] = struct{}{}
	}

	for i, b := range d.Buckets {
		if i > 0 && b.Date <= d.Buckets[i-1].Date {
			return errors.New(errors.ErrCodeInvalidInput,
				"bucket %d: date %d is not after previous bucket date %d", i, b.Date, d.Buckets[i-1].Date)
		}
		seen := make(map[string]struct{}, len(b.Contributions))
		for _, c := range b.Contributions {
			if _, ok := known[c.AuthorID]; !ok {
				return errors.New(errors.ErrCodeInvalidInput, "bucket %d: unknown author_id %q", i, c.AuthorID)
			}
			if _, dup := seen[c.AuthorID]; dup {
				return errors.New(errors.ErrCodeInvalidInput, "bucket %d: author_id %q listed twice", i, c.AuthorID)
			}
			seen[c.AuthorID] = struct{}{}
			if math.IsInf(c.Size, 0) {
				return errors.New(errors.ErrCodeInvalidInput, "bucket %d: size for %q must be finite", i, c.AuthorID)
			}
		}
	}
	return nil
}

// fieldError converts validator output into a coded error naming the first
// failing field.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid dataset")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "gt":
		return errors.New(errors.ErrCodeInvalidInput, "%s must be positive, got %v", fe.Namespace(), fe.Value())
	case "authorid":
		return errors.New(errors.ErrCodeInvalidInput, "%s is not a valid author id: %q", fe.Namespace(), fe.Value())
	default:
		return errors.New(errors.ErrCodeInvalidInput, "%s failed %q validation", fe.Namespace(), fe.Tag())
	}
}
