package auth

import (
	"fmt"

	"github.com/jhoicas/caja-registradora/internal/application/dto"
	"github.com/jhoicas/caja-registradora/internal/domain"
	"github.com/jhoicas/caja-registradora/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login del operador de caja con PIN.
// El PIN no se guarda: solo su hash bcrypt (OPERATOR_PIN_HASH).
type AuthUseCase struct {
	pinHash []byte
	jwtCfg  JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(pinHash string, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{pinHash: []byte(pinHash), jwtCfg: jwtCfg}
}

// Login verifica el PIN y emite un JWT a nombre del operador.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if len(uc.pinHash) == 0 {
		return nil, fmt.Errorf("%w: login deshabilitado", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(uc.pinHash, []byte(in.PIN)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, in.Operator, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresIn: uc.jwtCfg.ExpMinutes * 60}, nil
}

// HashPIN genera el valor para OPERATOR_PIN_HASH.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
