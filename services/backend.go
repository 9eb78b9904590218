package services

// Backend groups the typed endpoint wrappers that share one API client
type Backend struct {
	API           *APIClient
	Auth          *AuthService
	Beneficiaries *BeneficiaryService
	Payments      *PaymentService
	Documents     *DocumentService
	Statements    *StatementService
	FinancialAid  *FinancialAidService
	Education     *EducationService
	Communication *CommunicationService
	Audit         *AuditService
	Dashboards    *DashboardService
	Portal        *PortalService
}

func NewBackend(api *APIClient) *Backend {
	return &Backend{
		API:           api,
		Auth:          NewAuthService(api),
		Beneficiaries: NewBeneficiaryService(api),
		Payments:      NewPaymentService(api),
		Documents:     NewDocumentService(api),
		Statements:    NewStatementService(api),
		FinancialAid:  NewFinancialAidService(api),
		Education:     NewEducationService(api),
		Communication: NewCommunicationService(api),
		Audit:         NewAuditService(api),
		Dashboards:    NewDashboardService(api),
		Portal:        NewPortalService(api),
	}
}

// Messages returns a portal inbox that always talks as the session ref
// currently points at
func (b *Backend) Messages(ref *SessionRef) *Inbox {
	return NewInbox(NewPortalMessages(b.API, ref.Get))
}
