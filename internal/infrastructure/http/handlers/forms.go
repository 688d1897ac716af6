package handlers

type navigateForm struct {
	View string `form:"view" validate:"required,max=64"`
}

type loginForm struct {
	Username string `form:"username" validate:"required,max=64"`
	Password string `form:"password" validate:"required"`
}
