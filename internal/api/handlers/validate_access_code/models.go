package validate_access_code

// ValidateCodeRequest HTTP request model
type ValidateCodeRequest struct {
	MachineID  int64  `json:"machineId"`
	AccessCode string `json:"accessCode"`
}
