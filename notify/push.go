// notify/push.go
package notify

import (
	"errors"

	"Gin_postgres_redis_carnival_tool/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// WebPusher 浏览器 Web Push（VAPID）。key 没配就整个跳过
type WebPusher struct {
	Subscriber      string // 联系邮箱, mailto: 形式可省
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

func (p *WebPusher) Push(sub models.PushSubscription, payload []byte) error {
	if p.VAPIDPublicKey == "" || p.VAPIDPrivateKey == "" {
		return errors.New("vapid keys not configured")
	}
	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}
	resp, err := webpush.SendNotification(payload, s, &webpush.Options{
		Subscriber:      p.Subscriber,
		VAPIDPublicKey:  p.VAPIDPublicKey,
		VAPIDPrivateKey: p.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
