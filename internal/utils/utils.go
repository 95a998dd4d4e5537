package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gwlabs/giveaway-backend/internal/config"
)

// FormatXP renders an XP value in the short form used on the public
// surface, e.g. 1500 -> "1.5k", 2000000 -> "2M".
func FormatXP(xp int) string {
	switch {
	case xp >= 1000000:
		return trimZero(fmt.Sprintf("%.1f", float64(xp)/1000000)) + "M"
	case xp >= 1000:
		return trimZero(fmt.Sprintf("%.1f", float64(xp)/1000)) + "k"
	default:
		return fmt.Sprintf("%d", xp)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// FormatAmount renders a monetary amount, e.g. 50 -> "$50".
func FormatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("$%d", int64(amount))
	}
	return fmt.Sprintf("$%.2f", amount)
}

// RequirementLines formats the minimum XP threshold and free-text
// requirement lines into display bullets. Lines prefixed with "|" are
// emitted without a bullet; blank lines are kept as separators. Returns
// "None" when nothing applies.
func RequirementLines(minXP int, additionalRequirements string) string {
	var lines []string
	if minXP > 0 {
		lines = append(lines, fmt.Sprintf("• %dk XP", minXP))
	}
	if additionalRequirements != "" {
		for _, line := range strings.Split(additionalRequirements, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				lines = append(lines, "")
			case strings.HasPrefix(trimmed, "|"):
				lines = append(lines, strings.TrimPrefix(trimmed, "|"))
			default:
				lines = append(lines, "• "+line)
			}
		}
	}
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, "\n")
}

// GenerateJWT generates a signed moderator token.
func GenerateJWT(userID, email, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT parses and validates a moderator token and returns its claims.
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
