package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"onway_routes/internal/models"
	"onway_routes/internal/storage"
)

// ImageDoc is an uploaded object as the client refers to it. ImageURL is its
// identity when an image list is diffed.
type ImageDoc struct {
	FileName string `json:"fileName" validate:"required,max=512,filename"`
	ImageURL string `json:"imageUrl" validate:"required,max=512,url"`
}

// PointDoc is one entry of a desired point list. A nil ID marks a new point.
// Its position in the list becomes its sequence.
type PointDoc struct {
	ID          *uint            `json:"id,omitempty"`
	Name        string           `json:"name" validate:"required,min=3,max=256"`
	Description string           `json:"description"`
	Type        models.PointType `json:"type" validate:"required,pointtype"`
	Latitude    float64          `json:"latitude" validate:"latitude"`
	Longitude   float64          `json:"longitude" validate:"longitude"`
	Images      []ImageDoc       `json:"images" validate:"dive"`
}

// CreateRouteDoc is the complete aggregate submitted on creation.
type CreateRouteDoc struct {
	Name        string     `json:"name" validate:"required,min=3,max=256"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags" validate:"required,min=1,unique,dive,required,max=128"`
	Images      []ImageDoc `json:"images" validate:"required,min=1,dive"`
	Points      []PointDoc `json:"points" validate:"required,min=1,dive"`
}

// EditRouteDoc is a partial desired state. A nil field is left unchanged;
// a non-nil empty list clears the collection.
type EditRouteDoc struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,min=3,max=256"`
	Description *string     `json:"description,omitempty"`
	Tags        *[]string   `json:"tags,omitempty" validate:"omitempty,dive,required,max=128"`
	Images      *[]ImageDoc `json:"images,omitempty" validate:"omitempty,dive"`
	Points      *[]PointDoc `json:"points,omitempty" validate:"omitempty,dive"`
}

// IsEmpty reports whether the document asks for no change at all.
func (d EditRouteDoc) IsEmpty() bool {
	return d.Name == nil && d.Description == nil && d.Tags == nil && d.Images == nil && d.Points == nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("pointtype", func(fl validator.FieldLevel) bool {
		return models.PointType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
		return storage.ValidateFileName(fl.Field().String()) == nil
	})
	return v
}

// validateDoc runs the struct rules and flattens violations into one
// validation error.
func validateDoc(op string, doc any) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Code: CodeValidation, Op: op, Message: err.Error(), Cause: err}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return &Error{Code: CodeValidation, Op: op, Message: strings.Join(msgs, "; "), Cause: err}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "max":
		return fmt.Sprintf("%s must have %s %s", field, map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	case "pointtype":
		return fmt.Sprintf("%s must be one of %v", field, models.PointTypes)
	case "filename":
		return fmt.Sprintf("%s must be <uuid>.<extension>", field)
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

// duplicateFileName returns the first file name used twice across lists.
func duplicateFileName(lists ...[]ImageDoc) (string, bool) {
	seen := map[string]bool{}
	for _, images := range lists {
		for _, img := range images {
			if seen[img.FileName] {
				return img.FileName, true
			}
			seen[img.FileName] = true
		}
	}
	return "", false
}
