package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"quickpolls/internal/apperrors"
	"quickpolls/internal/authz"
	"quickpolls/internal/models"
	"quickpolls/internal/repository"
	"quickpolls/internal/utils"
)

type UserService struct {
	userRepo repository.UserRepository
	pollRepo repository.PollRepository
}

func NewUserService(userRepo repository.UserRepository, pollRepo repository.PollRepository) *UserService {
	return &UserService{userRepo: userRepo, pollRepo: pollRepo}
}

// UpdateProfileInput 個人資料的可選更新欄位
type UpdateProfileInput struct {
	Username       *string
	Bio            *string
	AvatarFilename *string
}

// AdminUpdateUserInput 管理員更新用戶時的可選欄位
type AdminUpdateUserInput struct {
	Email    *string
	Username *string
	Password *string
	Bio      *string
	Group    *int
	Verified *bool
	Banned   *bool
	Points   *int
}

// Register 註冊新用戶，發放初始積分
func (s *UserService) Register(email, username, password string) (*models.User, error) {
	if _, err := s.userRepo.FindByUsernameOrEmail(username, email); err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrDatabase
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.ErrDatabase
	}

	user := models.User{
		Email:          email,
		Username:       username,
		HashedPassword: string(hashedPassword),
		Points:         models.PointsRegister,
	}

	if err := s.userRepo.Create(&user); err != nil {
		// 唯一索引的競爭寫入在這裡被攔下，不向外洩漏驅動錯誤
		return nil, apperrors.ErrDatabase
	}
	return &user, nil
}

// Login 驗證帳密並簽發 JWT token
func (s *UserService) Login(username, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return "", nil, apperrors.ErrWrongCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", nil, apperrors.ErrWrongCredentials
	}

	if user.Banned {
		return "", nil, apperrors.ErrBanned
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return "", nil, apperrors.ErrDatabase
	}
	return token, user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

// ViewUser 查看用戶資料
// 電子郵件只有本人或 Moderator 以上可以看到
func (s *UserService) ViewUser(actor *models.User, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, userError(err)
	}

	if actor == nil || (actor.ID != user.ID && !models.IsAtLeast(actor.Group, models.GroupModerator.ID)) {
		public := user.Public()
		return &public, nil
	}
	return user, nil
}

// List 用戶列表，Moderator 以上可見
func (s *UserService) List(actor *models.User) ([]models.User, error) {
	if err := authz.Authorize(actor, authz.ActionListUsers, authz.Resource{}); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperrors.ErrDatabase
	}
	return users, nil
}

// AdminCreate 管理員直接創建用戶
func (s *UserService) AdminCreate(actor *models.User, email, username, password string, group int) (*models.User, error) {
	if err := authz.Authorize(actor, authz.ActionManageUsers, authz.Resource{}); err != nil {
		return nil, err
	}
	if _, ok := models.GetGroup(group); !ok {
		return nil, apperrors.ErrGroupNotFound
	}

	user, err := s.Register(email, username, password)
	if err != nil {
		return nil, err
	}

	if group != user.Group {
		user.Group = group
		if err := s.userRepo.Update(user); err != nil {
			return nil, apperrors.ErrDatabase
		}
	}
	return user, nil
}

// AdminUpdate 管理員更新任意用戶的任意欄位
func (s *UserService) AdminUpdate(actor *models.User, username string, input AdminUpdateUserInput) error {
	if err := authz.Authorize(actor, authz.ActionManageUsers, authz.Resource{}); err != nil {
		return err
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.ErrDatabase
		}
		user.HashedPassword = string(hashedPassword)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Group != nil {
		if _, ok := models.GetGroup(*input.Group); !ok {
			return apperrors.ErrGroupNotFound
		}
		user.Group = *input.Group
	}
	if input.Verified != nil {
		user.Verified = *input.Verified
	}
	if input.Banned != nil {
		user.Banned = *input.Banned
	}
	if input.Points != nil {
		user.Points = *input.Points
	}

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// AdminDelete 管理員刪除用戶
// 先級聯刪除該用戶的所有投票，再清理其投票記錄和留言
func (s *UserService) AdminDelete(actor *models.User, username string) error {
	if err := authz.Authorize(actor, authz.ActionManageUsers, authz.Resource{}); err != nil {
		return err
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	polls, err := s.pollRepo.FindByAuthor(user.ID)
	if err != nil {
		return apperrors.ErrDatabase
	}
	for _, poll := range polls {
		if err := s.pollRepo.DeleteCascade(poll.ID); err != nil {
			return apperrors.ErrDatabase
		}
	}

	if err := s.userRepo.Delete(user); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// PollsByUser 列出某個用戶創建的投票
// 私密投票只對作者本人和 Moderator 以上可見
func (s *UserService) PollsByUser(actor *models.User, username string) ([]models.Poll, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, userError(err)
	}

	polls, err := s.pollRepo.FindByAuthor(user.ID)
	if err != nil {
		return nil, apperrors.ErrDatabase
	}

	visible := make([]models.Poll, 0, len(polls))
	for _, poll := range polls {
		if poll.Private && !canModerate(actor, poll.AuthorID) {
			continue
		}
		poll.Author = poll.Author.Public()
		visible = append(visible, poll)
	}
	return visible, nil
}

// UpdateProfile 更新個人資料，允許本人或 Moderator 以上
func (s *UserService) UpdateProfile(actor *models.User, username string, input UpdateProfileInput) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	if err := authz.Authorize(actor, authz.ActionEditProfile, authz.Resource{OwnerID: user.ID}); err != nil {
		return err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarFilename != nil && *input.AvatarFilename != "" {
		user.AvatarFilename = *input.AvatarFilename
	}

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// UpdateEmail 更新電子郵件，只允許本人
func (s *UserService) UpdateEmail(actor *models.User, username, email string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	if err := authz.Authorize(actor, authz.ActionEditSettings, authz.Resource{OwnerID: user.ID}); err != nil {
		return err
	}

	user.Email = email
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// ChangePassword 修改密碼，只允許本人，且需要驗證舊密碼
func (s *UserService) ChangePassword(actor *models.User, username, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	if err := authz.Authorize(actor, authz.ActionEditSettings, authz.Resource{OwnerID: user.ID}); err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(oldPassword)); err != nil {
		return apperrors.ErrWrongOldPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.ErrDatabase
	}
	user.HashedPassword = string(hashedPassword)

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// SetVerified 設置或取消用戶的驗證標記，Moderator 以上可用
func (s *UserService) SetVerified(actor *models.User, username string, verified bool) error {
	if err := authz.Authorize(actor, authz.ActionVerifyUser, authz.Resource{}); err != nil {
		return err
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	user.Verified = verified
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// SetBanned 封禁或解封用戶，操作者級別必須嚴格高於目標
func (s *UserService) SetBanned(actor *models.User, username string, banned bool) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	if err := authz.Authorize(actor, authz.ActionBanUser, authz.Resource{TargetGroup: user.Group}); err != nil {
		return err
	}

	user.Banned = banned
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// ChangeGroup 調整用戶組
// 操作者必須是 Admin 以上、級別嚴格高於目標，且新組級別嚴格低於自己
func (s *UserService) ChangeGroup(actor *models.User, username string, newGroup int) error {
	if _, ok := models.GetGroup(newGroup); !ok {
		return apperrors.ErrGroupNotFound
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	err = authz.Authorize(actor, authz.ActionChangeGroup, authz.Resource{
		TargetGroup: user.Group,
		NewGroup:    newGroup,
	})
	if err != nil {
		return err
	}

	user.Group = newGroup
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// ChangePoints 增減用戶積分，action 只能是 +1 或 -1
func (s *UserService) ChangePoints(actor *models.User, username string, action, count int) error {
	if action != 1 && action != -1 {
		return apperrors.ErrUnknownAction
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return userError(err)
	}

	if err := authz.Authorize(actor, authz.ActionChangePoints, authz.Resource{TargetGroup: user.Group}); err != nil {
		return err
	}

	if err := s.userRepo.AddPoints(user.ID, action*count); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

func userError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.ErrDatabase
}
