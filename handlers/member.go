package handlers

import (
	"log"
	"net/http"
	"regexp"

	"carvalet/models"
	"carvalet/services"
	"carvalet/utils"

	"github.com/gin-gonic/gin"
)

// 電子郵件驗證 regex
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterMember 註冊會員資料檢查
func RegisterMember(c *gin.Context) {
	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error())
		return
	}

	// 驗證電子郵件
	if !emailRegex.MatchString(member.Email) {
		ErrorResponse(c, http.StatusBadRequest, "請提供有效的電子郵件地址", "invalid email format")
		return
	}

	// 驗證密碼（最少 8 個字元，至少一個字母和一個數字）
	if len(member.Password) < 8 ||
		!regexp.MustCompile(`[a-zA-Z]`).MatchString(member.Password) ||
		!regexp.MustCompile(`[0-9]`).MatchString(member.Password) {
		ErrorResponse(c, http.StatusBadRequest, "密碼必須至少8個字符，包含字母和數字", "weak password")
		return
	}

	if err := services.RegisterMember(&member); err != nil {
		log.Printf("Failed to register member with email %s: %v", member.Email, err)
		ErrorResponse(c, http.StatusBadRequest, "會員註冊失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "會員註冊成功", member.ToResponse())
}

// LoginMember 登入會員資料檢查
func LoginMember(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginData); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error())
		return
	}

	if !emailRegex.MatchString(loginData.Email) {
		ErrorResponse(c, http.StatusBadRequest, "請提供有效的電子郵件地址", "invalid email format")
		return
	}

	member, err := services.LoginMember(loginData.Email, loginData.Password)
	if err != nil {
		log.Printf("Login failed for email %s: %v", loginData.Email, err)
		ErrorResponse(c, http.StatusUnauthorized, "登入失敗，檢查電子郵件或密碼", err.Error())
		return
	}

	token, err := utils.GenerateToken(member.MemberID, member.Email)
	if err != nil {
		log.Printf("Failed to generate token for member %d: %v", member.MemberID, err)
		ErrorResponse(c, http.StatusInternalServerError, "登入失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "登入成功", gin.H{
		"token":  token,
		"member": member.ToResponse(),
	})
}

// GetMemberProfile 查詢目前會員的個人資料
func GetMemberProfile(c *gin.Context) {
	memberID, exists := c.Get("member_id")
	if !exists {
		ErrorResponse(c, http.StatusUnauthorized, "未授權", "member_id not found in token")
		return
	}

	member, err := services.GetMemberByID(memberID.(int))
	if err != nil {
		log.Printf("Failed to get member %v: %v", memberID, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}
	if member == nil {
		ErrorResponse(c, http.StatusNotFound, "會員不存在", "member not found")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", member.ToResponse())
}
