package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/httputil"
	"github.com/famplan/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAuthRoutes registers the routes for registration and login
// with the RouterGroup that is passed.
func (co Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", co.Register)

	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", co.Login)
}

// RegisterInvitationRoutes registers the routes for invitations with
// the RouterGroup that is passed.
func (co Controller) RegisterInvitationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetInvitations)
	r.POST("", co.CreateInvitation)
}

// RegisterEditable represents the parameters of a registration.
// Exactly one of familyName and inviteCode must be set: a new family
// is either founded or joined, never both.
type RegisterEditable struct {
	Name       string `json:"name" example:"Jane Doe"`
	Email      string `json:"email" example:"jane@example.com"`
	Password   string `json:"password" example:"correct horse battery staple"`
	FamilyName string `json:"familyName" example:"Doe family" default:""`                           // Name of the family to found
	InviteCode string `json:"inviteCode" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce" default:""` // Invitation code of the family to join
}

// LoginEditable represents the parameters of a login.
type LoginEditable struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

type Session struct {
	Token string      `json:"token"` // Bearer token for subsequent requests
	User  models.User `json:"user"`  // The authenticated user
}

type SessionResponse struct {
	Data  *Session `json:"data"`                                          // The session, if one was created
	Error *string  `json:"error" example:"invalid email or password"`     // The error, if any occurred
}

type InvitationResponse struct {
	Data  *models.Invitation `json:"data"`  // The invitation
	Error *string            `json:"error"` // The error, if any occurred
}

type InvitationListResponse struct {
	Data  []models.Invitation `json:"data"`  // List of invitations
	Error *string             `json:"error"` // The error, if any occurred
}

var (
	errRegistrationFields = errors.New("name, email and password must be set")
	errFamilyOrInvite     = errors.New("exactly one of familyName and inviteCode must be set")
)

// @Summary		Register
// @Description	Registers a new user, either founding a new family or joining one by invitation
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201		{object}	SessionResponse
// @Failure		400		{object}	SessionResponse
// @Failure		409		{object}	SessionResponse
// @Failure		500		{object}	SessionResponse
// @Param			user	body		RegisterEditable	true	"Registration"
// @Router			/v1/auth/register [post]
func (co Controller) Register(c *gin.Context) {
	var editable RegisterEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SessionResponse{Error: &s})
		return
	}

	if editable.Name == "" || editable.Email == "" || editable.Password == "" {
		s := errRegistrationFields.Error()
		c.JSON(http.StatusBadRequest, SessionResponse{Error: &s})
		return
	}

	if (editable.FamilyName == "") == (editable.InviteCode == "") {
		s := errFamilyOrInvite.Error()
		c.JSON(http.StatusBadRequest, SessionResponse{Error: &s})
		return
	}

	user := models.User{Name: editable.Name, Email: editable.Email}
	err = user.SetPassword(editable.Password)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SessionResponse{Error: &s})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if editable.FamilyName != "" {
			family := models.Family{Name: editable.FamilyName}
			err := tx.Create(&family).Error
			if err != nil {
				return err
			}

			user.FamilyID = family.ID
			user.Role = models.RoleAdmin
			return tx.Create(&user).Error
		}

		var invitation models.Invitation
		err := tx.
			Where(&models.Invitation{Code: editable.InviteCode}).
			First(&invitation).Error
		if err != nil || invitation.Used {
			return errInviteCodeInvalid
		}

		user.FamilyID = invitation.FamilyID
		user.Role = models.RoleMember
		err = tx.Create(&user).Error
		if err != nil {
			return err
		}

		return tx.Model(&invitation).Select("Used").Updates(models.Invitation{Used: true}).Error
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SessionResponse{Error: &s})
		return
	}

	token, err := co.Auth.GenerateToken(user)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, SessionResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{Data: &Session{Token: token, User: user}})
}

// @Summary		Login
// @Description	Verifies the credentials and returns a bearer token
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200		{object}	SessionResponse
// @Failure		400		{object}	SessionResponse
// @Failure		401		{object}	SessionResponse
// @Param			login	body		LoginEditable	true	"Credentials"
// @Router			/v1/auth/login [post]
func (co Controller) Login(c *gin.Context) {
	var editable LoginEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SessionResponse{Error: &s})
		return
	}

	// Emails are stored lowercased, normalize the input the same way
	email := strings.ToLower(strings.TrimSpace(editable.Email))

	var user models.User
	err = models.DB.Where("email = ?", email).First(&user).Error
	if err != nil || !user.CheckPassword(editable.Password) {
		s := auth.ErrInvalidCredentials.Error()
		c.JSON(http.StatusUnauthorized, SessionResponse{Error: &s})
		return
	}

	token, err := co.Auth.GenerateToken(user)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, SessionResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Data: &Session{Token: token, User: user}})
}

// @Summary		Create invitation
// @Description	Creates a single-use invitation code for the caller's family
// @Tags			Auth
// @Produce		json
// @Success		201	{object}	InvitationResponse
// @Failure		500	{object}	InvitationResponse
// @Router			/v1/invitations [post]
func (co Controller) CreateInvitation(c *gin.Context) {
	user := auth.CurrentUser(c)

	invitation := models.Invitation{FamilyID: user.FamilyID}
	err := models.DB.Create(&invitation).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvitationResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, InvitationResponse{Data: &invitation})
}

// @Summary		Get invitations
// @Description	Returns the invitations of the caller's family
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	InvitationListResponse
// @Failure		500	{object}	InvitationListResponse
// @Router			/v1/invitations [get]
func (co Controller) GetInvitations(c *gin.Context) {
	user := auth.CurrentUser(c)

	var invitations []models.Invitation
	err := models.DB.
		Where(&models.Invitation{FamilyID: user.FamilyID}).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvitationListResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, InvitationListResponse{Data: invitations})
}
