package service

import "time"

// utcNow - часы всех сервисов. Окна и слоты хранят наивные метки на
// UTC-стене, поэтому решения "дата в прошлом" и "слот в прошлом"
// принимаются на тех же часах независимо от зоны сервера.
func utcNow() time.Time {
	return time.Now().UTC()
}
