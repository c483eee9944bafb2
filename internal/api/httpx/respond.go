package httpx

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Data writes the success envelope: {"data": v}.
func Data(c *gin.Context, status int, v interface{}) {
	c.JSON(status, gin.H{"data": v})
}

// Error writes the failure envelope: {"error": msg}.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// BindMsg turns a gin binding error into the message of its first validation
// issue, mirroring how the frontend expects 400 bodies to read.
func BindMsg(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "email":
			return fe.Field() + " must be a valid email address"
		case "min":
			return fe.Field() + " is too short"
		case "max":
			return fe.Field() + " is too long"
		default:
			return fe.Field() + " is invalid"
		}
	}
	if err != nil {
		return err.Error()
	}
	return "invalid request"
}
