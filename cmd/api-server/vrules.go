package main

import (
	"github.com/protomem/oncall/internal/validator"
)

// Validation rules

func validateRequestAddUser(v *validator.Validator, request requestAddUser) {
	v.CheckField(validator.NotBlank(request.Username), "username", "cannot be blank")
	v.CheckField(validator.MaxRunes(request.Username, 64), "username", "must not be longer than 64 characters")

	v.CheckField(validator.NotBlank(request.Email), "email", "cannot be blank")
	v.CheckField(validator.IsEmail(request.Email), "email", "must be a valid email address")

	if request.FullName != nil {
		v.CheckField(validator.NotBlank(*request.FullName), "fullName", "cannot be blank")
		v.CheckField(validator.MaxRunes(*request.FullName, 128), "fullName", "must not be longer than 128 characters")
	}

	v.CheckField(validator.NotBlank(request.Password), "password", "cannot be blank")
	v.CheckField(validator.MinRunes(request.Password, 8), "password", "must be at least 8 characters long")
	v.CheckField(validator.MaxRunes(request.Password, 72), "password", "must not be longer than 72 characters")
}

func validateRequestAddAssignment(v *validator.Validator, request requestAddAssignment) {
	v.CheckField(request.UserID > 0, "userId", "must be provided")

	v.CheckField(request.Start != nil, "start", "must be provided")
	v.CheckField(request.End != nil, "end", "must be provided")

	if request.Start != nil && request.End != nil {
		// Zero-length and inverted windows are both rejected.
		v.CheckField(request.Start.Before(*request.End), "end", "must be after start")
	}

	if request.Notes != nil {
		v.CheckField(validator.MaxRunes(*request.Notes, 1024), "notes", "must not be longer than 1024 characters")
	}
}
