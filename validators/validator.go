// Package validators checks request bodies and query strings before they
// reach a controller. Each area has its own subpackage of fiber handlers.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"techgo/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their json name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := models.ParseCategory(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Struct validates s and returns field → message, or nil when s is valid.
func Struct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := strings.SplitN(fe.Namespace(), ".", 2)
		name := fe.Field()
		if len(key) == 2 {
			name = key[1]
		}
		if _, seen := fields[name]; !seen {
			fields[name] = message(fe)
		}
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "email":
		return "A valid email is required"
	case "category":
		return "Category must be one of mobiles, laptops, tablets, earphones, speakers"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// QueryInt reads an integer query parameter, falling back to def when it is
// absent. Malformed values are reported in errs.
func QueryInt(c *fiber.Ctx, name string, def int, errs map[string]string) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[name] = fmt.Sprintf("%s must be an integer", name)
		return def
	}
	return n
}

// QueryDecimal parses an optional decimal query parameter.
func QueryDecimal(c *fiber.Ctx, name string, errs map[string]string) *decimal.Decimal {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs[name] = fmt.Sprintf("%s must be a number", name)
		return nil
	}
	return &d
}

// QueryCategory parses an optional category query parameter.
func QueryCategory(c *fiber.Ctx, errs map[string]string) models.Category {
	raw := strings.TrimSpace(c.Query("category"))
	if raw == "" {
		return ""
	}
	category, err := models.ParseCategory(raw)
	if err != nil {
		errs["category"] = "Category must be one of mobiles, laptops, tablets, earphones, speakers"
		return ""
	}
	return category
}

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string, errs map[string]string) uint {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		errs[name] = fmt.Sprintf("%s must be a positive integer", name)
		return 0
	}
	return uint(n)
}
