package domain

type User struct {
	Id         UserId `json:"id"`
	Name       string `json:"name"`
	AvatarPath string `json:"avatar_path,omitempty"`
	IsAdmin    bool   `json:"is_admin,omitempty"`
}
