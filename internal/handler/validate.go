package handler

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	appI18n "github.com/pavelanni/assessor/internal/i18n"
)

var indexRe = regexp.MustCompile(`\[(\d+)\]`)

// newValidator panics if a custom tag cannot be registered.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// describe turns the first validation failure into a localized message.
func describe(ctx context.Context, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	ns := fe.Namespace()

	switch {
	case strings.Contains(ns, "Questions["):
		return appI18n.Td(ctx, "QuestionFieldsMissing", map[string]any{"Index": elementIndex(ns)})
	case fe.Field() == "Questions":
		return appI18n.T(ctx, "QuestionsRequired")
	case strings.Contains(ns, "Answers["):
		return appI18n.Td(ctx, "UnknownQuestion", map[string]any{"ID": "#" + strconv.Itoa(elementIndex(ns))})
	case fe.Field() == "Answers":
		return appI18n.T(ctx, "AnswersRequired")
	case fe.Field() == "Responses" || strings.Contains(ns, "Responses["):
		return appI18n.T(ctx, "ResponsesRequired")
	case fe.Field() == "UserID":
		return appI18n.T(ctx, "UserIDRequired")
	}
	return fe.Error()
}

func elementIndex(namespace string) int {
	m := indexRe.FindStringSubmatch(namespace)
	if m == nil {
		return 0
	}
	i, _ := strconv.Atoi(m[1])
	return i
}
