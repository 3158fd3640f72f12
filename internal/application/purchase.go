package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

// Session data keys used by the purchase flow.
const (
	keyProductID   = "productId"
	keyProductName = "productName"
	keyPrice       = "price"
	keyQuantity    = "quantity"
	keyAddress     = "address"
	keyPhone       = "phone"
)

var quantityPicks = []int64{1, 2, 3, 5, 10}

func (e *Engine) startPurchase(ctx context.Context, sess *model.Session) error {
	products, err := e.catalog.Products(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		e.say(ctx, sess.UserID, "Nothing is on sale right now.", nil)
		return nil
	}
	sess.StartFlow(model.FlowPurchase, model.StepChooseProduct)
	menu := make([][]adapter.Button, 0, len(products)+1)
	for _, p := range products {
		menu = append(menu, row(btn(fmt.Sprintf("%s — %s", p.Name, formatMoney(p.Price)), PrefixBuy+p.ID)))
	}
	menu = append(menu, cancelRow())
	return e.render.Send(ctx, sess, "Choose a product:", menu)
}

func (e *Engine) handlePurchase(ctx context.Context, sess *model.Session, ev Event) error {
	switch sess.Step {
	case model.StepChooseProduct:
		if ev.Kind == EventAction && strings.HasPrefix(ev.Action, PrefixBuy) {
			return e.purchaseChoose(ctx, sess, strings.TrimPrefix(ev.Action, PrefixBuy))
		}

	case model.StepQuantity:
		switch {
		case ev.Kind == EventAction && ev.Action == ActQtyOther:
			sess.Step = model.StepQuantityManual
			return e.render.Send(ctx, sess, "How many? Type a number:", rows(cancelRow()))
		case ev.Kind == EventAction && strings.HasPrefix(ev.Action, PrefixQty):
			return e.purchaseQuantity(ctx, sess, strings.TrimPrefix(ev.Action, PrefixQty))
		case ev.Kind == EventText:
			return e.purchaseQuantity(ctx, sess, ev.Text)
		}

	case model.StepQuantityManual:
		if ev.Kind == EventText {
			return e.purchaseQuantity(ctx, sess, ev.Text)
		}

	case model.StepAddress:
		switch {
		case ev.Kind == EventAction && ev.Action == ActAddrLast:
			last, err := e.catalog.LastOrder(ctx, sess.UserID)
			if err != nil {
				return e.reject(ctx, sess, "Couldn't find a previous address — please type it:")
			}
			return e.purchaseAddress(ctx, sess, last.Address)
		case ev.Kind == EventAction && ev.Action == ActAddrOther:
			sess.Step = model.StepAddressManual
			return e.render.Send(ctx, sess, "Where should we deliver? Type the address:", rows(cancelRow()))
		case ev.Kind == EventText:
			return e.purchaseAddress(ctx, sess, ev.Text)
		}

	case model.StepAddressManual:
		if ev.Kind == EventText {
			return e.purchaseAddress(ctx, sess, ev.Text)
		}

	case model.StepPhone:
		switch {
		case ev.Kind == EventAction && ev.Action == ActPhoneLast:
			last, err := e.catalog.LastOrder(ctx, sess.UserID)
			if err != nil {
				return e.reject(ctx, sess, "Couldn't find a previous phone number — please type it:")
			}
			return e.purchasePhone(ctx, sess, last.Phone)
		case ev.Kind == EventAction && ev.Action == ActPhoneOther:
			sess.Step = model.StepPhoneManual
			return e.render.Send(ctx, sess, "Your phone number:", rows(cancelRow()))
		case ev.Kind == EventText:
			return e.purchasePhone(ctx, sess, ev.Text)
		}

	case model.StepPhoneManual:
		if ev.Kind == EventText {
			return e.purchasePhone(ctx, sess, ev.Text)
		}

	case model.StepConfirmOrder:
		if ev.Kind == EventAction && ev.Action == ActConfirmOrder {
			sess.Step = model.StepAwaitReceipt
			return e.render.Send(ctx, sess, "Send a photo of your payment receipt.", rows(cancelRow()))
		}

	case model.StepAwaitReceipt:
		if ev.Kind == EventPhoto {
			return e.purchaseReceipt(ctx, sess, ev)
		}
		if ev.Kind == EventText {
			return e.reject(ctx, sess, "I need a photo of the receipt to finish the order.")
		}
	}
	return e.notExpected(ctx, sess)
}

func (e *Engine) purchaseChoose(ctx context.Context, sess *model.Session, productID string) error {
	p, err := e.catalog.Product(ctx, productID)
	if err != nil {
		// Covers both a vanished product and a transient store fault; the
		// user re-picks either way.
		return e.reject(ctx, sess, "That product is not available anymore — pick another one.")
	}
	sess.Data[keyProductID] = p.ID
	sess.Data[keyProductName] = p.Name
	sess.Data[keyPrice] = strconv.FormatInt(p.Price, 10)
	sess.Step = model.StepQuantity

	picks := make([]adapter.Button, 0, len(quantityPicks))
	for _, q := range quantityPicks {
		picks = append(picks, btn(strconv.FormatInt(q, 10), PrefixQty+strconv.FormatInt(q, 10)))
	}
	menu := rows(picks, row(btn("Other…", ActQtyOther)), cancelRow())
	return e.render.Send(ctx, sess, fmt.Sprintf("<b>%s</b> — %s each.\nHow many?", p.Name, formatMoney(p.Price)), menu)
}

func (e *Engine) purchaseQuantity(ctx context.Context, sess *model.Session, input string) error {
	qty, err := parseAmount(input)
	if err != nil {
		return e.reject(ctx, sess, "Please send a whole number greater than zero.")
	}
	sess.Data[keyQuantity] = strconv.FormatInt(qty, 10)
	sess.Step = model.StepAddress

	menu := rows(row(btn("✍️ Type an address", ActAddrOther)), cancelRow())
	if _, err := e.catalog.LastOrder(ctx, sess.UserID); err == nil {
		menu = rows(row(btn("📍 Use my last address", ActAddrLast)), row(btn("✍️ Type an address", ActAddrOther)), cancelRow())
	}
	return e.render.Send(ctx, sess, "Where should we deliver?", menu)
}

func (e *Engine) purchaseAddress(ctx context.Context, sess *model.Session, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return e.reject(ctx, sess, "The address can't be empty.")
	}
	sess.Data[keyAddress] = address
	sess.Step = model.StepPhone

	menu := rows(row(btn("✍️ Type a number", ActPhoneOther)), cancelRow())
	if _, err := e.catalog.LastOrder(ctx, sess.UserID); err == nil {
		menu = rows(row(btn("📞 Use my last number", ActPhoneLast)), row(btn("✍️ Type a number", ActPhoneOther)), cancelRow())
	}
	return e.render.Send(ctx, sess, "Your phone number?", menu)
}

func (e *Engine) purchasePhone(ctx context.Context, sess *model.Session, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return e.reject(ctx, sess, "The phone number can't be empty.")
	}
	sess.Data[keyPhone] = phone
	sess.Step = model.StepConfirmOrder

	price, _ := strconv.ParseInt(sess.Data[keyPrice], 10, 64)
	qty, _ := strconv.ParseInt(sess.Data[keyQuantity], 10, 64)
	summary := fmt.Sprintf(
		"<b>Order summary</b>\n%s × %d\nTotal: <b>%s</b>\nAddress: %s\nPhone: %s",
		sess.Data[keyProductName], qty, formatMoney(price*qty), sess.Data[keyAddress], phone,
	)
	return e.render.Send(ctx, sess, summary, rows(row(btn("✅ Confirm", ActConfirmOrder)), cancelRow()))
}

func (e *Engine) purchaseReceipt(ctx context.Context, sess *model.Session, ev Event) error {
	receiptURL, err := e.ingest.Ingest(ctx, ev.PhotoFileID)
	if err != nil {
		return err
	}

	price, _ := strconv.ParseInt(sess.Data[keyPrice], 10, 64)
	qty, _ := strconv.ParseInt(sess.Data[keyQuantity], 10, 64)
	order := model.Order{
		UserID:      sess.UserID,
		ProductID:   sess.Data[keyProductID],
		ProductName: sess.Data[keyProductName],
		PriceEach:   price,
		Quantity:    qty,
		Total:       price * qty,
		BuyerName:   displayName(ev),
		Phone:       sess.Data[keyPhone],
		Address:     sess.Data[keyAddress],
		Handle:      ev.Username,
		ReceiptURL:  receiptURL,
	}
	if _, err := e.catalog.SaveOrder(ctx, order); err != nil {
		return err
	}

	e.forwardToReview(ctx, order)
	e.finish(ctx, sess, "completed", "✅ Order received! We'll contact you shortly to confirm delivery.")
	return nil
}

// forwardToReview posts the receipt to the staff review channel. Failures are
// logged only: the order is already persisted and the buyer confirmed.
func (e *Engine) forwardToReview(ctx context.Context, order model.Order) {
	if e.reviewChannelID == 0 {
		return
	}
	caption := fmt.Sprintf(
		"🧾 New order\n%s × %d = %s\n%s, %s\n%s",
		order.ProductName, order.Quantity, formatMoney(order.Total),
		order.BuyerName, order.Phone, order.Address,
	)
	if _, err := e.chat.SendPhoto(ctx, e.reviewChannelID, order.ReceiptURL, caption); err != nil {
		e.log.Warn().Err(err).Int64("channel_id", e.reviewChannelID).Msg("review channel forward failed")
	}
}
