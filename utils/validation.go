// utils/validation.go
package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength     = 5
	MaxNicknameLength = 15
)

const (
	PhonePattern = `^09[0-9]{8}$`
	EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
)

// Messages shown to the member, in rule order.
const (
	MessageNameInvalid       = "姓名為必填且長度不能超過5個字"
	MessageNicknameTooLong   = "暱稱長度不能超過15個字"
	MessagePhoneInvalid      = "手機號碼格式錯誤"
	MessageEmailInvalid      = "電子郵件格式錯誤"
	MessageBirthdayMissing   = "請選擇生日"
	MessageAddressIncomplete = "請選擇完整的地址"
	MessageGenderInvalid     = "性別選項錯誤"
	MessageDistrictMismatch  = "鄉鎮市區與縣市不符"
)

var (
	phonePattern = regexp.MustCompile(PhonePattern)
	emailPattern = regexp.MustCompile(EmailPattern)
)

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

// MemberForm holds the profile fields collected by the registration form.
type MemberForm struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
	Gender   string `json:"gender"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
	City     string `json:"city"`
	District string `json:"district"`
}

// ValidationError names the first field that failed and the message shown to the member.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FormValidator checks a MemberForm. The zero value only checks that a
// district is present; StrictDistrict also requires it to belong to the city.
type FormValidator struct {
	StrictDistrict bool
}

// ValidateMemberForm runs the default rules.
func ValidateMemberForm(f MemberForm) error {
	return FormValidator{}.Validate(f)
}

// Validate returns a *ValidationError for the first rule that fails, or nil.
func (v FormValidator) Validate(f MemberForm) error {
	if f.Name == "" || utf8.RuneCountInString(f.Name) > MaxNameLength {
		return &ValidationError{Field: "name", Message: MessageNameInvalid}
	}
	if f.Nickname != "" && utf8.RuneCountInString(f.Nickname) > MaxNicknameLength {
		return &ValidationError{Field: "nickname", Message: MessageNicknameTooLong}
	}
	if !ValidatePhone(f.Phone) {
		return &ValidationError{Field: "phone", Message: MessagePhoneInvalid}
	}
	if !ValidateEmail(f.Email) {
		return &ValidationError{Field: "email", Message: MessageEmailInvalid}
	}
	if strings.TrimSpace(f.Birthday) == "" {
		return &ValidationError{Field: "birthday", Message: MessageBirthdayMissing}
	}
	if f.City == "" || f.District == "" {
		return &ValidationError{Field: "district", Message: MessageAddressIncomplete}
	}
	if f.Gender != "" && !validGenders[f.Gender] {
		return &ValidationError{Field: "gender", Message: MessageGenderInvalid}
	}
	if v.StrictDistrict && !DistrictBelongsTo(f.City, f.District) {
		return &ValidationError{Field: "district", Message: MessageDistrictMismatch}
	}
	return nil
}

// ClientRules is the subset of the rules the registration page checks
// before submitting. The district/city cross-check stays on the server.
type ClientRules struct {
	NameMax      int               `json:"nameMax"`
	NicknameMax  int               `json:"nicknameMax"`
	PhonePattern string            `json:"phonePattern"`
	EmailPattern string            `json:"emailPattern"`
	Genders      []string          `json:"genders"`
	Messages     map[string]string `json:"messages"`
}

func NewClientRules() ClientRules {
	return ClientRules{
		NameMax:      MaxNameLength,
		NicknameMax:  MaxNicknameLength,
		PhonePattern: PhonePattern,
		EmailPattern: EmailPattern,
		Genders:      []string{"male", "female", "other"},
		Messages: map[string]string{
			"name":     MessageNameInvalid,
			"nickname": MessageNicknameTooLong,
			"phone":    MessagePhoneInvalid,
			"email":    MessageEmailInvalid,
			"birthday": MessageBirthdayMissing,
			"address":  MessageAddressIncomplete,
			"gender":   MessageGenderInvalid,
		},
	}
}

// ValidatePhone checks for a Taiwanese mobile number: 09 followed by 8 digits.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
