package validators

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/paradoks/clubhub/utils"
)

var validate *validator.Validate

var (
	clubNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 ]*$`)
	tagPattern      = regexp.MustCompile(`^[a-z]*$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	mustRegister("clubname", matches(clubNamePattern))
	mustRegister("tag", matches(tagPattern))
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validators: register %q: %v", tag, err))
	}
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

type ValidationResponse struct {
	Errors []ValidationError `json:"errors"`
}

func Validate(data interface{}) []ValidationError {
	var validationErrors []ValidationError

	err := validate.Struct(data)
	if err != nil {
		if errors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range errors {
				validationErrors = append(validationErrors, ValidationError{
					Field: e.Field(),
					Tag:   e.Tag(),
					Value: e.Param(),
				})
			}
		}
	}

	return validationErrors
}

type ClubRegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=128"`
	ClubName string `json:"clubName" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserRegisterRequest struct {
	FirstName  string `json:"firstName" validate:"required,min=2,max=50"`
	SecondName string `json:"secondName" validate:"required,min=2,max=50"`
	Email      string `json:"email" validate:"required,email,max=128"`
	Password   string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyRequest struct {
	Email string `form:"email" validate:"required,email"`
	Code  string `form:"code" validate:"required,len=6,numeric"`
}

func ValidateClubRegisterRequest(c *gin.Context) (*ClubRegisterRequest, bool) {
	return bindJSON[ClubRegisterRequest](c)
}

func ValidateUserRegisterRequest(c *gin.Context) (*UserRegisterRequest, bool) {
	return bindJSON[UserRegisterRequest](c)
}

func ValidateLoginRequest(c *gin.Context) (*LoginRequest, bool) {
	return bindJSON[LoginRequest](c)
}

func ValidateVerifyRequest(c *gin.Context) (*VerifyRequest, bool) {
	return bindQuery[VerifyRequest](c)
}

// bindJSON decodes the body into T and validates it. On failure it has already
// written a 400 response.
func bindJSON[T any](c *gin.Context) (*T, bool) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendResponse(c, http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return nil, false
	}
	return check(c, &req)
}

func bindQuery[T any](c *gin.Context) (*T, bool) {
	var req T
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.SendResponse(c, http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return nil, false
	}
	return check(c, &req)
}

func check[T any](c *gin.Context, req *T) (*T, bool) {
	if errs := Validate(req); len(errs) > 0 {
		utils.SendResponse(c, http.StatusBadRequest, "Validation failed", nil, ValidationResponse{
			Errors: errs,
		})
		return nil, false
	}
	return req, true
}
