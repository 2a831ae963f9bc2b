package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const deviceCookie = "deviceId"

// LocalDeviceID is the fiber locals key under which the resolved device
// identifier is stored. Handlers read the actor id from here, never from the
// cookie directly.
const LocalDeviceID = "device_id"

// DeviceIdentity assigns every browser an opaque identifier carried in a
// long-lived signed cookie. The signature only prevents one device from
// claiming another's id by editing the cookie; it is not authentication.
func DeviceIdentity(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		if id := parseDeviceToken(c.Cookies(deviceCookie), key); id != "" {
			c.Locals(LocalDeviceID, id)
			return c.Next()
		}

		id := uuid.NewString()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"device_id": id,
			"iat":       time.Now().Unix(),
		}).SignedString(key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "internal error"})
		}

		c.Cookie(&fiber.Cookie{
			Name:     deviceCookie,
			Value:    token,
			Expires:  time.Now().Add(365 * 24 * time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
		})
		c.Locals(LocalDeviceID, id)
		return c.Next()
	}
}

func parseDeviceToken(tokenStr string, key []byte) string {
	if tokenStr == "" {
		return ""
	}
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	claims := token.Claims.(*jwt.MapClaims)
	id, _ := (*claims)["device_id"].(string)
	return id
}

// ActorID returns the device identifier resolved by DeviceIdentity.
func ActorID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalDeviceID).(string)
	return id
}
