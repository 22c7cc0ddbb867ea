package domain

// Identity - проверенная личность менеджера, извлеченная из токена
type Identity struct {
	Subject string
	Email   string
}

// LoginResult - токены, выданные провайдером идентификации
type LoginResult struct {
	IDToken      string
	RefreshToken string
	ExpiresIn    int
}
