package middleware

import (
	"fmt"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomLoggingMiddleware creates a custom logging middleware
func CustomLoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		userInfo := "user=anonymous"
		if email, emailExists := param.Keys["user_email"]; emailExists {
			userInfo = "user=" + email.(string)
		} else if userID, exists := param.Keys["user_id"]; exists {
			if userIDStr, ok := userID.(string); ok {
				userInfo = "user=" + userIDStr
			} else if userIDUUID, ok := userID.(uuid.UUID); ok {
				userInfo = "user=" + userIDUUID.String()
			}
		}

		// Format: [GIN] 2025/10/02 - 04:28:42 | 401 | 1.2834ms | 127.0.0.1 | GET /api/v1/auth/profile | user=anonymous
		return fmt.Sprintf("[GIN] %s | %d | %8v | %s | %-7s %s | %s\n",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			userInfo,
		)
	})
}

// UserExtractionMiddleware extracts user info from the JWT for request
// logging only. The token is parsed without signature validation here;
// the real check happens in AuthRequired.
func UserExtractionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user_id"); exists {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString := authHeader[7:]

			claims, err := parseJWTWithoutValidation(tokenString)
			if err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("user_email", claims.Email)
			}
		}
		c.Next()
	}
}

func parseJWTWithoutValidation(tokenString string) (*utils.Claims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, &utils.Claims{})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*utils.Claims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}

	return claims, nil
}
