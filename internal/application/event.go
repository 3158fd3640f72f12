package application

// EventKind distinguishes the three inbound event shapes the engine accepts.
type EventKind string

const (
	EventAction EventKind = "action" // menu/button tap carrying an action string
	EventText   EventKind = "text"
	EventPhoto  EventKind = "photo"
)

// Event is one inbound chat event, already stripped of platform detail.
// UserID doubles as the chat id: the bot only converses in private chats.
type Event struct {
	UserID      int64
	Username    string
	FirstName   string
	Kind        EventKind
	Text        string
	Action      string
	PhotoFileID string
}

// Action strings. Buttons carry either an exact action or PREFIX_identifier;
// handlers recover the identifier by stripping the known prefix.
const (
	ActCancel = "CANCEL"

	ActMenuMain     = "MENU_MAIN"
	ActMenuProducts = "MENU_PRODUCTS"
	ActMenuBlogs    = "MENU_BLOGS"
	ActMenuFeedback = "MENU_FEEDBACK"
	ActMenuPurchase = "MENU_PURCHASE"

	ActAdminAddProduct   = "ADMIN_ADD_PRODUCT"
	ActAdminAddBlog      = "ADMIN_ADD_BLOG"
	ActAdminListFeedback = "ADMIN_LIST_FEEDBACK"
	ActAdminRates        = "ADMIN_RATES"
	ActAdminCategories   = "ADMIN_CATEGORIES"

	PrefixBuy   = "BUY_"
	PrefixQty   = "QTY_"
	ActQtyOther = "QTY_OTHER"

	ActAddrLast   = "ADDR_LAST"
	ActAddrOther  = "ADDR_OTHER"
	ActPhoneLast  = "PHONE_LAST"
	ActPhoneOther = "PHONE_OTHER"

	ActConfirmOrder = "CONFIRM_ORDER"

	PrefixRating    = "RATING_"
	ActFeedbackSkip = "FEEDBACK_SKIP"

	PrefixPickCategory = "PICKCAT_"

	PrefixBlock        = "BLOCK_"
	ActBlogUndo        = "BLOG_UNDO"
	ActBlogPreview     = "BLOG_PREVIEW"
	ActBlogPublish     = "BLOG_PUBLISH"
	ActBlogSkipCover   = "BLOG_SKIP_COVER"
	ActBlogSkipCaption = "BLOG_SKIP_CAPTION"

	PrefixRate   = "RATE_"
	ActRatesSave = "RATES_SAVE"

	PrefixAdminCat  = "ADMIN_CAT_"
	ActCategoryAdd  = "CAT_ADD"
	PrefixCatRename = "CAT_RENAME_"
	PrefixCatDelete = "CAT_DELETE_"
	ActCatDelYes    = "CAT_DEL_YES"
	ActCatDelNo     = "CAT_DEL_NO"
)
