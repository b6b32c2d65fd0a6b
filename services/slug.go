package services

import (
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/vnkhanh/noyes-server/models"
)

// Slugify lowercases, keeps letters and digits, and joins runs of anything
// else with single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func uniqueSlug(base string, exists func(slug string) (bool, error)) (string, error) {
	slug := base
	counter := 1
	for {
		taken, err := exists(slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}

// GenerateQuestionnaireSlug derives a globally unique slug from a title.
func GenerateQuestionnaireSlug(db *gorm.DB, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "questionnaire"
	}
	return uniqueSlug(base, func(slug string) (bool, error) {
		var count int64
		err := db.Model(&models.Questionnaire{}).Where("slug = ?", slug).Count(&count).Error
		return count > 0, err
	})
}

// GenerateNodeSlug derives a slug from node content, unique within the
// questionnaire (not globally).
func GenerateNodeSlug(db *gorm.DB, questionnaireID uint, content string) (string, error) {
	base := Slugify(content)
	if len(base) > 50 {
		base = strings.TrimRight(base[:50], "-")
	}
	if base == "" {
		base = "node"
	}
	return uniqueSlug(base, func(slug string) (bool, error) {
		var count int64
		err := db.Model(&models.Node{}).
			Where("questionnaire_id = ? AND slug = ?", questionnaireID, slug).
			Count(&count).Error
		return count > 0, err
	})
}

// GenerateUserSlug derives a globally unique slug from a username.
func GenerateUserSlug(db *gorm.DB, username string) (string, error) {
	base := Slugify(username)
	if base == "" {
		base = "user"
	}
	return uniqueSlug(base, func(slug string) (bool, error) {
		var count int64
		err := db.Model(&models.User{}).Where("slug = ?", slug).Count(&count).Error
		return count > 0, err
	})
}
