package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSamePassword       = errors.New("new password must differ from the current one")

	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to this user")
	ErrNotSubscribed     = errors.New("not subscribed to this user")

	ErrAlreadyFavorited = errors.New("recipe is already in favorites")
	ErrNotFavorited     = errors.New("recipe is not in favorites")
	ErrAlreadyInCart    = errors.New("recipe is already in the shopping cart")
	ErrNotInCart        = errors.New("recipe is not in the shopping cart")

	ErrForbidden           = errors.New("only the author can change this recipe")
	ErrUnknownTag          = errors.New("unknown tag")
	ErrUnknownIngredient   = errors.New("unknown ingredient")
	ErrDuplicateTag        = errors.New("tags must be unique")
	ErrDuplicateIngredient = errors.New("ingredients must be unique")
)
