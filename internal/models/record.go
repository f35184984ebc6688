package models

// Record is the flattened structured extraction for one segment. Every
// field is independently optional; an empty string means "not found".
// JSON tags follow the legacy export schema consumed downstream.
type Record struct {
	SegmentID int `json:"segment_id"`
	StartPage int `json:"start_page"`
	EndPage   int `json:"end_page"`
	PageCount int `json:"page_count"`

	DocType   string `json:"loai_van_ban"`
	FullTitle string `json:"ten_day_du"`

	ProjectCode      string `json:"ma_du_an"`
	ProjectName      string `json:"ten_du_an"`
	Investor         string `json:"chu_dau_tu"`
	Objective        string `json:"muc_tieu_du_an"`
	InvestmentAmount string `json:"quy_mo_dau_tu"`
	FundSource       string `json:"loai_nguon_von"`
	ProjectStatus    string `json:"trang_thai_du_an"`
	InspectionStatus string `json:"trang_thai_thanh_tra"`
	AuditStatus      string `json:"trang_thai_kiem_toan"`
	ProjectGroup     string `json:"nhom_du_an"`
	Sector           string `json:"linh_vuc"`
	SettlementUnit   string `json:"don_vi_xu_ly_quyet_toan"`
	WorkType         string `json:"loai_cong_trinh"`
	WorkGrade        string `json:"cap_cong_trinh"`
	ManagementForm   string `json:"hinh_thuc_quan_ly"`

	ExpectedStart      string `json:"thoi_gian_du_kien_khoi_cong"`
	ExpectedCompletion string `json:"thoi_gian_du_kien_hoan_thanh"`
	ExecutionPeriod    string `json:"thoi_gian_thuc_hien_du_an"`
	EndDate            string `json:"thoi_gian_ket_thuc_du_an"`

	CurrencyUnit   string `json:"don_vi_tien_te"`
	DecisionNumber string `json:"so_quyet_dinh"`
	DecisionDate   string `json:"ngay_quyet_dinh"`
	DispatchType   string `json:"loai_cong_van"`
}
