package model

import "time"

// FlowType names one of the fixed multi-step conversations the bot can drive.
type FlowType string

const (
	FlowNone          FlowType = "none"
	FlowPurchase      FlowType = "purchase"
	FlowFeedback      FlowType = "feedback"
	FlowAdminProduct  FlowType = "admin_product"
	FlowAdminBlog     FlowType = "admin_blog"
	FlowAdminRates    FlowType = "admin_rates"
	FlowAdminCategory FlowType = "admin_category"
)

// Step is a position inside a flow's state machine. A Step is only meaningful
// relative to the FlowType it belongs to; flowSteps below is the single source
// of truth for which pairs exist.
type Step string

const (
	StepNone Step = ""

	// purchase
	StepChooseProduct  Step = "choose_product"
	StepQuantity       Step = "quantity"
	StepQuantityManual Step = "quantity_manual"
	StepAddress        Step = "address"
	StepAddressManual  Step = "address_manual"
	StepPhone          Step = "phone"
	StepPhoneManual    Step = "phone_manual"
	StepConfirmOrder   Step = "awaiting_confirm_receipt"
	StepAwaitReceipt   Step = "await_receipt"

	// feedback
	StepRating       Step = "rating"
	StepFeedbackText Step = "text_input"

	// admin_product
	StepProductName        Step = "name"
	StepProductPrice       Step = "price"
	StepProductCategory    Step = "category"
	StepProductDescription Step = "description"
	StepProductPhoto       Step = "photo"

	// admin_blog
	StepBlogTitle       Step = "title"
	StepBlogCategory    Step = "blog_category"
	StepBlogReadTime    Step = "read_time"
	StepBlogDescription Step = "blog_description"
	StepBlogCover       Step = "cover"
	StepBuilder         Step = "builder"
	StepBuilderInput    Step = "builder_input"
	StepBuilderImage    Step = "builder_image"
	StepBuilderCaption  Step = "builder_caption"

	// admin_rates
	StepRatesHub   Step = "rates_hub"
	StepRatesValue Step = "rates_value"

	// admin_category
	StepCategoryHub     Step = "category_hub"
	StepCategoryAdd     Step = "category_add"
	StepCategoryRename  Step = "category_rename"
	StepCategoryConfirm Step = "category_confirm"
)

var flowSteps = map[FlowType][]Step{
	FlowNone:     {StepNone},
	FlowPurchase: {StepChooseProduct, StepQuantity, StepQuantityManual, StepAddress, StepAddressManual, StepPhone, StepPhoneManual, StepConfirmOrder, StepAwaitReceipt},
	FlowFeedback: {StepRating, StepFeedbackText},
	FlowAdminProduct: {
		StepProductName, StepProductPrice, StepProductCategory, StepProductDescription, StepProductPhoto,
	},
	FlowAdminBlog: {
		StepBlogTitle, StepBlogCategory, StepBlogReadTime, StepBlogDescription, StepBlogCover,
		StepBuilder, StepBuilderInput, StepBuilderImage, StepBuilderCaption,
	},
	FlowAdminRates:    {StepRatesHub, StepRatesValue},
	FlowAdminCategory: {StepCategoryHub, StepCategoryAdd, StepCategoryRename, StepCategoryConfirm},
}

// ValidStep reports whether (flow, step) is a pair from the transition tables.
func ValidStep(flow FlowType, step Step) bool {
	for _, s := range flowSteps[flow] {
		if s == step {
			return true
		}
	}
	return false
}

// AdminFlow reports whether the flow requires a privileged caller.
func (f FlowType) AdminFlow() bool {
	switch f {
	case FlowAdminProduct, FlowAdminBlog, FlowAdminRates, FlowAdminCategory:
		return true
	}
	return false
}

// Session holds a user's progress in the active flow. It lives for the life of
// the process (or the repository TTL when stored externally); nothing in it
// survives a completed or cancelled flow.
type Session struct {
	UserID            int64             `json:"user_id"`
	Flow              FlowType          `json:"flow"`
	Step              Step              `json:"step"`
	Data              map[string]string `json:"data"`
	Blocks            []Block           `json:"blocks,omitempty"`
	TrackedMessageIDs []int             `json:"tracked_message_ids,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

func NewSession(userID int64) *Session {
	return &Session{
		UserID:    userID,
		Flow:      FlowNone,
		Step:      StepNone,
		Data:      map[string]string{},
		CreatedAt: time.Now(),
	}
}

// StartFlow switches the session to the first step of a flow, discarding any
// residue from a previously abandoned flow.
func (s *Session) StartFlow(flow FlowType, step Step) {
	s.Flow = flow
	s.Step = step
	s.Data = map[string]string{}
	s.Blocks = nil
}

// Clear returns the session to the idle state. Tracked message ids are kept;
// the session store deletes them and replaces the session wholesale on reset.
func (s *Session) Clear() {
	s.Flow = FlowNone
	s.Step = StepNone
	s.Data = map[string]string{}
	s.Blocks = nil
}

// Idle reports whether no flow is in progress.
func (s *Session) Idle() bool { return s.Flow == FlowNone }

// Track remembers an outbound message id for best-effort cleanup on reset.
func (s *Session) Track(messageID int) {
	if messageID == 0 {
		return
	}
	s.TrackedMessageIDs = append(s.TrackedMessageIDs, messageID)
}

// AppendBlock adds a content block at the tail of the builder document.
func (s *Session) AppendBlock(b Block) { s.Blocks = append(s.Blocks, b) }

// RemoveLastBlock pops the tail block; it reports false on an empty document.
func (s *Session) RemoveLastBlock() bool {
	if len(s.Blocks) == 0 {
		return false
	}
	s.Blocks = s.Blocks[:len(s.Blocks)-1]
	return true
}
