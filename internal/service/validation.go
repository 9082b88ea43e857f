package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
)

var validate = newValidator()

// newValidator reports fields under their JSON names so clients see the
// same keys they sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs struct tags on in and folds failures into ErrInvalidInput.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ferrs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		ferrs = append(ferrs, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return NewInvalidInputError(ferrs)
}

func message(fe validator.FieldError) string {
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		if text {
			return "length must be at least " + fe.Param()
		}
		return "must be >= " + fe.Param()
	case "max":
		if text {
			return "length must be at most " + fe.Param()
		}
		return "must be <= " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	default:
		return "is invalid"
	}
}

func requirePositiveID(id int64) error {
	if id <= 0 {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return nil
}

// listParams turns a client page request into repository parameters. The
// search term becomes one OR group over the entity's search fields.
func listParams(q PageQuery, textFields, numericFields []string) (query.ListParams, error) {
	dir, err := query.ParseDirection(q.SortOrder)
	if err != nil {
		return query.ListParams{}, err
	}
	var criteria query.Criteria
	if term := strings.TrimSpace(q.Search); term != "" {
		criteria = criteria.And(query.SearchGroup(term, textFields, numericFields))
	}
	for _, f := range q.Filters {
		criteria = criteria.And(query.Where(f))
	}
	return query.ListParams{
		Page:     query.PageRequest{Number: q.PageNumber, Size: q.PageSize},
		Criteria: criteria,
		Sort:     query.Sort{Field: strings.TrimSpace(q.SortBy), Direction: dir},
	}, nil
}

// unique is one field that must not collide with another record.
type unique struct {
	field string // query field name
	json  string // name reported to the client
	value any
}

// checkUnique returns a duplicateError naming every colliding field.
// excludeID > 0 ignores that record, for updates.
func checkUnique[T any](ctx context.Context, store repository.Store[T], entity string, excludeID int64, fields ...unique) error {
	var dups []FieldError
	for _, u := range fields {
		var (
			found bool
			err   error
		)
		if excludeID > 0 {
			found, err = store.ExistsByExcludingID(ctx, excludeID, u.field, u.value)
		} else {
			found, err = store.ExistsBy(ctx, u.field, u.value)
		}
		if err != nil {
			return err
		}
		if found {
			dups = append(dups, FieldError{Field: u.json, Message: "already exists"})
		}
	}
	if len(dups) > 0 {
		return &duplicateError{entity: entity, fields: dups}
	}
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
