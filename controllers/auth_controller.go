package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusvote/campusvote_backend/config"
	"github.com/campusvote/campusvote_backend/middleware"
	"github.com/campusvote/campusvote_backend/models"
	"github.com/campusvote/campusvote_backend/utils"
)

// otpValidity is how long a signup challenge stays usable.
const otpValidity = 5 * time.Minute

// defaultProfileImage is returned when a voter has no profile picture set.
const defaultProfileImage = "https://via.placeholder.com/100"

// AuthController contains authentication logic
type AuthController struct {
	DB            *mongo.Client
	logger        *log.Logger
	sendMail      func(email, otp string) error
	loginAttempts map[string]struct {
		count       int
		lastAttempt time.Time
	}
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	ac := &AuthController{
		DB:       db,
		logger:   log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		sendMail: utils.SendOTPEmail,
		loginAttempts: make(map[string]struct {
			count       int
			lastAttempt time.Time
		}),
	}

	go ac.startLoginAttemptCleanupRoutine()

	return ac
}

func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	for {
		time.Sleep(30 * time.Minute)
		ac.loginAttemptsMu.Lock()
		for identifier, attempts := range ac.loginAttempts {
			if time.Since(attempts.lastAttempt) > 30*time.Minute {
				delete(ac.loginAttempts, identifier)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}

// SendOTP issues a signup challenge: generates a fresh 6-digit code, purges
// any previous challenge for the email, stores the new one and mails it.
// The code is never echoed back or logged.
func (ac *AuthController) SendOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email is required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	if err := utils.ValidateOTPAttempts(email, config.GetRedisClient()); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many OTP requests. Please try again later",
		})
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate OTP",
		})
	}

	otpColl := config.GetCollection(ac.DB, "otps")

	// At most one active challenge per email
	if _, err := otpColl.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store OTP",
		})
	}

	now := time.Now()
	challenge := models.EmailOTP{
		Email:     email,
		OTP:       otp,
		CreatedAt: now,
		ExpiresAt: now.Add(otpValidity),
	}
	if _, err := otpColl.InsertOne(ctx, challenge); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store OTP",
		})
	}

	if err := ac.sendMail(email, otp); err != nil {
		ac.logger.Printf("Failed to send OTP email to %s: %v", utils.MaskEmail(email), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send OTP email",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTP sent successfully",
	})
}

// Signup handler. Signup is gated behind the email challenge: the submitted
// code must match the stored one and still be within its validity window.
// Duplicate accounts are rejected by the unique index on students.email.
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, email, password and OTP are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	req.Name = utils.SanitizeInput(req.Name)

	// Look up the challenge for this email
	otpColl := config.GetCollection(ac.DB, "otps")
	var challenge models.EmailOTP
	err = otpColl.FindOne(ctx, bson.M{"email": email}).Decode(&challenge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid OTP",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify OTP",
		})
	}

	if time.Now().After(challenge.ExpiresAt) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "OTP has expired. Please request a new one",
		})
	}

	if challenge.OTP != req.OTP {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid OTP",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	student := models.Student{
		Name:      req.Name,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	students := config.GetCollection(ac.DB, "students")
	_, err = students.InsertOne(ctx, student)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "User already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Signup failed",
		})
	}

	// Challenge is consumed; a second signup with the same code must fail
	if _, err := otpColl.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		ac.logger.Printf("Failed to purge OTP challenges for %s: %v", utils.MaskEmail(email), err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Signup successful",
	})
}

// Login handler
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[email]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	// The same response covers unknown email and wrong password, so the
	// endpoint cannot be used to probe which addresses are registered.
	students := config.GetCollection(ac.DB, "students")
	var student models.Student
	err = students.FindOne(ctx, bson.M{"email": email}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			ac.recordFailedLogin(email, attempts.count, exists)
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid credentials",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Login failed",
		})
	}

	if err := utils.CheckPassword(req.Password, student.Password); err != nil {
		ac.recordFailedLogin(email, attempts.count, exists)
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid credentials",
		})
	}

	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, email)
	ac.loginAttemptsMu.Unlock()

	token, err := middleware.GenerateJWT(student.Email, student.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	imgSrc := student.ImgSrc
	if imgSrc == "" {
		imgSrc = defaultProfileImage
	}

	return c.JSON(http.StatusOK, models.LoginData{
		Token:         token,
		Email:         student.Email,
		Name:          student.Name,
		EnrollmentNum: student.EnrollmentNum,
		ImgSrc:        imgSrc,
	})
}

func (ac *AuthController) recordFailedLogin(email string, prevCount int, exists bool) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()
	count := 1
	if exists {
		count = prevCount + 1
	}
	ac.loginAttempts[email] = struct {
		count       int
		lastAttempt time.Time
	}{count: count, lastAttempt: time.Now()}
}

// GetProfile returns the authenticated voter's profile
func (ac *AuthController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email, err := middleware.ExtractEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	students := config.GetCollection(ac.DB, "students")
	var student models.Student
	err = students.FindOne(ctx, bson.M{"email": email}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve user",
		})
	}

	student.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    student,
	})
}
