package backend

// User is the account record returned by a successful backend login.
type User struct {
	ID               int     `json:"id"`
	Email            string  `json:"email"`
	TelegramUsername *string `json:"telegram_username"`
	ExpiryDate       *string `json:"expiry_date"`
	MachineID        string  `json:"machine_id"`
}

// MachineIDResult is the flat (non-enveloped) machine-id lookup response.
type MachineIDResult struct {
	Success       bool    `json:"success"`
	Email         string  `json:"email"`
	MachineID     string  `json:"machine_id"`
	AppIdentifier *string `json:"app_identifier"`
}

// RedeemResult reports the effect of redeeming a license key.
type RedeemResult struct {
	ExpiryDate  *string `json:"expiry_date"`
	DaysAdded   *int    `json:"days_added"`
	IsNewMember bool    `json:"is_new_member"`
}

// ShopeeAccount is a stored upstream account entry.
type ShopeeAccount struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	IsActive  bool    `json:"is_active"`
	CreatedAt *string `json:"created_at"`
}

// Niche groups product sets by topic.
type Niche struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	ProductSets []ProductSet `json:"product_sets"`
}

type ProductSet struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	NicheID     *int             `json:"niche_id"`
	Items       []ProductSetItem `json:"items"`
}

type ProductSetItem struct {
	ID     int    `json:"id"`
	URL    string `json:"url"`
	ShopID *int64 `json:"shop_id"`
	ItemID *int64 `json:"item_id"`
}

// NewProductSetItem is the caller-supplied shape for adding items to a
// product set.
type NewProductSetItem struct {
	URL    string `json:"url"`
	ShopID *int64 `json:"shop_id,omitempty"`
	ItemID *int64 `json:"item_id,omitempty"`
}
