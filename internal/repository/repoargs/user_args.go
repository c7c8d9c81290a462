package repoargs

// UpdateProfile nil-поля не изменяются.
type UpdateProfile struct {
	Name    *string
	Phone   *string
	Address *string
}
