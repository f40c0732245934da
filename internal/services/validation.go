package services

import (
	"fmt"
	"strings"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldErrors collects failures in the order fields are checked.
type fieldErrors []domain.FieldError

func (e *fieldErrors) add(field, msg string) {
	*e = append(*e, domain.FieldError{Field: field, Message: msg})
}

// check runs validator rules (e.g. "required,min=2,max=40") against value
// and records the first failing rule.
func (e *fieldErrors) check(field string, value any, rules string) {
	err := validate.Var(value, rules)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		e.add(field, err.Error())
		return
	}
	e.add(field, ruleMessage(verrs[0], rules))
}

func (e fieldErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return domain.ValidationError{Errors: e}
}

func ruleParams(rules string) map[string]string {
	out := map[string]string{}
	for _, r := range strings.Split(rules, ",") {
		k, v, _ := strings.Cut(r, "=")
		out[k] = v
	}
	return out
}

func ruleMessage(fe validator.FieldError, rules string) string {
	params := ruleParams(rules)
	switch fe.Tag() {
	case "required":
		return "may not be null"
	case "min", "max":
		lo, hasMin := params["min"]
		hi, hasMax := params["max"]
		if hasMin && hasMax {
			return fmt.Sprintf("size must be between %s and %s", lo, hi)
		}
		if hasMin {
			return fmt.Sprintf("size must be at least %s", lo)
		}
		return fmt.Sprintf("size must be at most %s", hi)
	case "email":
		return "not a well-formed email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func ValidateAuthor(a models.Author) error {
	var errs fieldErrors
	errs.check("name", a.Name, "required,min=2,max=40")
	return errs.err()
}

func ValidateCategory(c models.Category) error {
	var errs fieldErrors
	errs.check("name", c.Name, "required,min=2,max=40")
	return errs.err()
}

func ValidateBook(b models.Book) error {
	var errs fieldErrors
	errs.check("title", b.Title, "required,min=10,max=150")
	errs.check("description", b.Description, "required,min=10,max=2000")
	if b.Category.ID <= 0 {
		errs.add("category", "may not be null")
	}
	if len(b.Authors) == 0 {
		errs.add("authors", "may not be empty")
	}
	seen := make(map[int64]bool, len(b.Authors))
	for _, a := range b.Authors {
		if a.ID <= 0 {
			errs.add("authors", "may not contain null ids")
			break
		}
		if seen[a.ID] {
			errs.add("authors", "may not contain duplicates")
			break
		}
		seen[a.ID] = true
	}
	errs.check("price", b.Price, "gt=0")
	return errs.err()
}

// ValidateUser checks profile fields. Password and type are checked only
// when adding.
func ValidateUser(u models.User, adding bool) error {
	var errs fieldErrors
	errs.check("name", u.Name, "required,min=3,max=40")
	errs.check("email", u.Email, "required,email")
	if adding {
		errs.check("password", u.Password, "required")
		errs.check("type", string(u.Type), "required,oneof=CUSTOMER EMPLOYEE")
	}
	return errs.err()
}

func ValidatePassword(password string) error {
	var errs fieldErrors
	errs.check("password", password, "required")
	return errs.err()
}

func ValidateOrderItems(items []models.NewOrderItem) error {
	var errs fieldErrors
	if len(items) == 0 {
		errs.add("items", "may not be empty")
	}
	for _, it := range items {
		if it.BookID <= 0 {
			errs.add("items", "bookId may not be null")
			break
		}
		if it.Quantity < 1 {
			errs.add("items", "quantity must be greater than 0")
			break
		}
	}
	return errs.err()
}
