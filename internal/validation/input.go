package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxNameLength        = 255
	MaxProjectCodeLength = 50
	MaxPhoneLength       = 50
	MaxURLLength         = 2048
	MaxYearsExperience   = 100
	MaxRegionsCount      = 50
	MaxExpertiseCount    = 100
	MaxExpertiseLength   = 100
)

var (
	emailLocalRe  = regexp.MustCompile(`^[a-z0-9._%+-]+$`)
	emailDomainRe = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateOptionalLength проверяет длину, если значение задано.
func ValidateOptionalLength(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(fieldName, *value, 0, max)
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must not be empty", fieldName)
	}
	return nil
}

// ValidateRequiredName непустое имя длиной до max символов.
func ValidateRequiredName(fieldName, value string, max int) error {
	if err := ValidateNonEmpty(fieldName, value); err != nil {
		return err
	}
	return ValidateLength(fieldName, value, 1, max)
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email must not be empty")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("email has invalid format")
	}

	local, domain := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 {
		return fmt.Errorf("email local part must be 1-64 characters")
	}
	if len(domain) == 0 || len(domain) > 255 {
		return fmt.Errorf("email domain must be 1-255 characters")
	}
	if !emailLocalRe.MatchString(local) || !emailDomainRe.MatchString(domain) {
		return fmt.Errorf("email has invalid format")
	}
	return nil
}

// ValidateOptionalEmail проверяет email, если он задан и не пустой.
func ValidateOptionalEmail(email *string) error {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil
	}
	return ValidateEmail(*email)
}

// ValidateURL проверяет http(s) ссылку.
func ValidateURL(fieldName string, link *string) error {
	if link == nil || *link == "" {
		return nil
	}

	value := strings.TrimSpace(*link)
	if err := ValidateLength(fieldName, value, 0, MaxURLLength); err != nil {
		return err
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL", fieldName)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must start with http:// or https://", fieldName)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must contain a host", fieldName)
	}
	return nil
}

// ValidateRange проверяет, что число лежит в [min, max].
func ValidateRange(fieldName string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d", fieldName, min, max)
	}
	return nil
}

// ValidateOptionalRange проверяет диапазон, если значение задано.
func ValidateOptionalRange(fieldName string, value *int, min, max int) error {
	if value == nil {
		return nil
	}
	return ValidateRange(fieldName, *value, min, max)
}

// ValidateNonNegative проверяет, что значение (если задано) не меньше нуля.
func ValidateNonNegative(fieldName string, value *int) error {
	if value != nil && *value < 0 {
		return fmt.Errorf("%s must be greater than or equal to 0", fieldName)
	}
	return nil
}

// ValidateEnum проверяет, что значение входит в допустимое множество.
func ValidateEnum(fieldName, value string, allowed map[string]struct{}) error {
	if _, ok := allowed[value]; ok {
		return nil
	}
	options := make([]string, 0, len(allowed))
	for k := range allowed {
		options = append(options, k)
	}
	sort.Strings(options)
	return fmt.Errorf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
}

// ValidateStringList проверяет список коротких непустых строк (регионы, области экспертизы).
func ValidateStringList(fieldName string, items []string, maxCount, maxItemLength int) error {
	if len(items) > maxCount {
		return fmt.Errorf("%s must contain at most %d items", fieldName, maxCount)
	}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("%s must not contain empty items", fieldName)
		}
		if maxItemLength > 0 && utf8.RuneCountInString(item) > maxItemLength {
			return fmt.Errorf("%s items must be at most %d characters", fieldName, maxItemLength)
		}
	}
	return nil
}

// FirstError возвращает первую ненулевую ошибку.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
