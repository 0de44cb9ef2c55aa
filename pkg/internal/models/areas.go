package models

type Area struct {
	BaseModel

	Name        string `json:"name" gorm:"uniqueIndex" validate:"required,lowercase,alphanum"`
	Displayname string `json:"displayname"`

	// Maximum number of posts one user can hold in their stack at a time.
	MaxUserStack int `json:"max_user_stack"`
	// Floor of the reputation-derived spread quota.
	SpreadMin int `json:"spread_min"`

	Posts []Post `json:"posts"`
}

const (
	DefaultMaxUserStack = 10
	DefaultSpreadMin    = 4
)
