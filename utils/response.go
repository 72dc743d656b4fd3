package utils

import "github.com/gin-gonic/gin"

// Error writes the API's uniform error shape: a status code and a message.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"message": message})
}

// AbortError writes an error response and stops the handler chain.
func AbortError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{"message": message})
}
