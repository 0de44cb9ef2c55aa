package http

import (
	"strconv"
	"strings"

	"github.com/spreadhq/spread/pkg/internal/authz"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// ReadKey verifies the bearer tokens minted by the external account service.
var ReadKey []byte

// authenticate fills c.Locals("user") when a valid bearer token is present.
// It never rejects; routes that need identity check for the local instead.
func authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Next()
	}

	token, err := jwt.Parse(
		strings.TrimPrefix(header, "Bearer "),
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return ReadKey, nil
		},
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	)
	if err != nil || !token.Valid {
		return c.Next()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Next()
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return c.Next()
	}
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return c.Next()
	}

	name, _ := claims["name"].(string)
	c.Locals("user", authz.Account{ID: uint(id), Name: name})
	return c.Next()
}

func LoadReadKey() {
	ReadKey = []byte(viper.GetString("security.read_key"))
}
