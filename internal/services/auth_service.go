package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
	"github.com/lubanrahat/ShopMateEcommerce/internal/dto"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrResetTokenInvalid  = errors.New("reset password token is invalid or has expired")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Email == "" || req.Password == "" {
		return nil, "", errors.New("please provide all required fields")
	}
	if len(name) < 3 {
		return nil, "", errors.New("name must be at least 3 characters")
	}
	if len(req.Password) < 8 {
		return nil, "", errors.New("password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.SignToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*models.User, string, error) {
	if req.Email == "" || req.Password == "" {
		return nil, "", errors.New("please provide all required fields")
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.SignToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) UpdatePassword(id uuid.UUID, req *dto.UpdatePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return errors.New("please provide all required fields")
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(req.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(&models.User{}).Where("id = ?", id).Update("password", string(hash)).Error
}

// UpdateProfile mutates name/email and, when avatar is non-nil, swaps the
// stored avatar. The previous avatar's public id is returned so the caller
// can clean it up on the image host.
func (s *AuthService) UpdateProfile(id uuid.UUID, req *dto.UpdateProfileRequest, avatar *models.AvatarImage) (*models.User, string, error) {
	if strings.TrimSpace(req.Name) == "" || req.Email == "" {
		return nil, "", errors.New("please provide all required fields")
	}

	user, err := s.GetUser(id)
	if err != nil {
		return nil, "", err
	}

	var taken models.User
	if err := s.db.Where("email = ? AND id <> ?", req.Email, id).First(&taken).Error; err == nil {
		return nil, "", ErrEmailTaken
	}

	oldPublicID := ""
	updates := map[string]interface{}{
		"name":  strings.TrimSpace(req.Name),
		"email": req.Email,
	}
	if avatar != nil {
		var old models.AvatarImage
		if len(user.Avatar) > 0 {
			if err := json.Unmarshal(user.Avatar, &old); err == nil {
				oldPublicID = old.PublicID
			}
		}
		raw, err := json.Marshal(avatar)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode avatar: %w", err)
		}
		updates["avatar"] = datatypes.JSON(raw)
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, "", err
	}

	updated, err := s.GetUser(id)
	if err != nil {
		return nil, "", err
	}
	return updated, oldPublicID, nil
}

// ForgotPassword stores a hashed single-use reset token and returns the raw
// token for mailing. The raw token never touches the database.
func (s *AuthService) ForgotPassword(email string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", ErrUserNotFound
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	hashed := hashResetToken(token)
	expire := time.Now().Add(s.cfg.ResetTokenTTL)

	err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"reset_password_token":  hashed,
		"reset_password_expire": expire,
	}).Error
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// ClearResetToken drops a pending reset token, used when the mail could not
// be delivered.
func (s *AuthService) ClearResetToken(id uuid.UUID) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}).Error
}

func (s *AuthService) ResetPassword(token string, req *dto.ResetPasswordRequest) (*models.User, error) {
	if req.Password == "" || req.ConfirmPassword == "" {
		return nil, errors.New("please provide all required fields")
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hashed := hashResetToken(token)

	var user models.User
	err := s.db.Where("reset_password_token = ? AND reset_password_expire > ?", hashed, time.Now()).First(&user).Error
	if err != nil {
		return nil, ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"password":              string(hash),
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// SignToken issues the session token carried in the HTTP-only cookie.
func (s *AuthService) SignToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func hashResetToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
