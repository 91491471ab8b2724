package trainer

type Trainer struct {
	Code       string `db:"code" json:"code"`
	NationalID string `db:"national_id" json:"national_id"`
	Name       string `db:"name" json:"name"`
	Phone      string `db:"phone" json:"phone,omitempty"`
	Email      string `db:"email" json:"email,omitempty"`
	HireDate   string `db:"hire_date" json:"hire_date,omitempty"`
	Nickname   string `db:"nickname" json:"nickname,omitempty"`
}

type RegisterTrainerRequest struct {
	Code       string `json:"code"`
	NationalID string `json:"national_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Email      string `json:"email" binding:"omitempty,email"`
	HireDate   string `json:"hire_date"`
	Nickname   string `json:"nickname"`
}
