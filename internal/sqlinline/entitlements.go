package sqlinline

const QSelectEntitlement = `--sql a70ff993-6071-403d-8dc0-937c3672ddf9
select user_id, is_premium, premium_plan, premium_expires_at, updated_at
from entitlements
where user_id = $1::text
limit 1;
`

const QUpsertEntitlement = `--sql 3cf1f407-563a-405a-96a9-333f32ee89c6
insert into entitlements(user_id, is_premium, premium_plan, premium_expires_at, updated_at)
values ($1::text, $2::boolean, $3::text, $4::timestamptz, $5::timestamptz)
on conflict (user_id) do update
set is_premium = excluded.is_premium,
    premium_plan = excluded.premium_plan,
    premium_expires_at = excluded.premium_expires_at,
    updated_at = excluded.updated_at;
`

// QDowngradeExpiredEntitlement only matches rows that are still premium and
// past expiry, so repeated or concurrent runs are harmless.
const QDowngradeExpiredEntitlement = `--sql 259ce7ec-d166-451f-8979-94f7b47ffafb
update entitlements
set is_premium = false,
    premium_plan = 'none',
    updated_at = $2::timestamptz
where user_id = $1::text
  and is_premium
  and premium_expires_at is not null
  and premium_expires_at <= $2::timestamptz;
`
